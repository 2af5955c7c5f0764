package util

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
)

// LoopbackHost 服务只监听本机回环地址
const LoopbackHost = "127.0.0.1"

// OpenBrowser 打开默认浏览器
// 支持 Windows 7/10/11, macOS, Linux
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// rundll32 调用 url.dll，Windows 7 上比 cmd /c start 稳定
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}

// OpenBrowserWithFallback 主要方式失败时尝试备选方式
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", url).Start()
	case "linux":
		browsers := []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}
		for _, browser := range browsers {
			if err := exec.Command(browser, url).Start(); err == nil {
				return nil
			}
		}
	}

	return err
}

// FindAvailablePort 从 startPort 开始查找可监听的端口，最多尝试 attempts 个
func FindAvailablePort(startPort, attempts int) (int, error) {
	for port := startPort; port < startPort+attempts && port <= 65535; port++ {
		ln, err := net.Listen("tcp", ListenAddr(port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in [%d, %d)", startPort, startPort+attempts)
}

// ListenAddr 回环监听地址
func ListenAddr(port int) string {
	return net.JoinHostPort(LoopbackHost, fmt.Sprint(port))
}

// LocalURL 浏览器访问地址
func LocalURL(port int) string {
	return fmt.Sprintf("http://%s/", ListenAddr(port))
}
