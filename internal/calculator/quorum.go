package calculator

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidThreshold 法定人数必须为正数
var ErrInvalidThreshold = errors.New("quorum threshold must be positive")

// Progress 法定人数进度
type Progress struct {
	Verified   int     `json:"verified"`   // 已签到人数
	Threshold  int     `json:"threshold"`  // 法定人数
	Percentage float64 `json:"percentage"` // 进度百分比 (0-100)
	Reached    bool    `json:"reached"`    // 是否达到法定人数
}

// Percentage 计算进度百分比：min(100, 100 * verified / threshold)
func Percentage(verifiedCount, threshold int) (float64, error) {
	if threshold <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidThreshold, threshold)
	}
	if verifiedCount <= 0 {
		return 0, nil
	}
	return math.Min(100, 100*float64(verifiedCount)/float64(threshold)), nil
}

// Summarize 汇总进度
func Summarize(verifiedCount, threshold int) (Progress, error) {
	pct, err := Percentage(verifiedCount, threshold)
	if err != nil {
		return Progress{}, err
	}
	return Progress{
		Verified:   verifiedCount,
		Threshold:  threshold,
		Percentage: pct,
		Reached:    verifiedCount >= threshold,
	}, nil
}
