// Package capture 将一次拍摄结果解析为花名册中的学号。
//
// 摄像头的打开与释放由浏览器负责，这里只接收拍摄完成后的帧。
// 识别策略可替换：RandomPick 保留原型阶段"随机选一个未签到者"的占位行为，
// DecodedText 处理前端已经解码好的证件号文本。
package capture

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/model"
	"rollcall/internal/service/matcher"
)

// ErrNotRecognized 无法识别出学号
var ErrNotRecognized = errors.New("id not recognized")

// Frame 一次拍摄
type Frame struct {
	ID         string    `json:"id"`
	Image      []byte    `json:"-"`
	Text       string    `json:"text,omitempty"` // 前端已解码的文本
	CapturedAt time.Time `json:"capturedAt"`
}

// NewFrame 创建拍摄帧
func NewFrame(image []byte, text string) Frame {
	return Frame{
		ID:         uuid.NewString(),
		Image:      image,
		Text:       text,
		CapturedAt: time.Now(),
	}
}

// Recognizer 识别策略
// roster 为完整花名册，记录带有签到标记
type Recognizer interface {
	Recognize(ctx context.Context, frame Frame, roster []model.Record) (string, error)
}

// RandomPick 从未签到记录中随机挑选一个
type RandomPick struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPick 创建随机识别器，rnd 为空时使用随机种子
func NewRandomPick(rnd *rand.Rand) *RandomPick {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomPick{rnd: rnd}
}

// Recognize 实现 Recognizer
func (p *RandomPick) Recognize(ctx context.Context, _ Frame, roster []model.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	candidates := make([]model.Record, 0, len(roster))
	for _, r := range roster {
		if !r.Verified {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNotRecognized
	}

	p.mu.Lock()
	idx := p.rnd.IntN(len(candidates))
	p.mu.Unlock()

	return candidates[idx].ID, nil
}

// DecodedText 使用帧中的文本按学号规则匹配（精确优先，其次后缀）
type DecodedText struct{}

// Recognize 实现 Recognizer
func (DecodedText) Recognize(ctx context.Context, frame Frame, roster []model.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r, ok := matcher.ResolveToken(frame.Text, roster, matcher.ModeID)
	if !ok {
		return "", ErrNotRecognized
	}
	return r.ID, nil
}

// ForFrame 有解码文本时按文本匹配，否则退回随机挑选
func ForFrame(random *RandomPick) Recognizer {
	return frameRouter{random: random}
}

type frameRouter struct {
	random *RandomPick
}

func (f frameRouter) Recognize(ctx context.Context, frame Frame, roster []model.Record) (string, error) {
	if frame.Text != "" {
		return DecodedText{}.Recognize(ctx, frame, roster)
	}
	return f.random.Recognize(ctx, frame, roster)
}
