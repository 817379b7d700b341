package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// 向 serve 模式的进程发送 SIGHUP，使其重新打开日志文件(配合 logrotate 使用)
func main() {
	pid := flag.Int("pid", 0, "目标进程号")
	pidFile := flag.String("pidfile", "", "从文件读取进程号")
	flag.Parse()

	target := *pid
	if *pidFile != "" {
		data, err := os.ReadFile(*pidFile)
		if err != nil {
			log.Fatal("Failed to read pidfile:", err)
		}
		target, err = strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			log.Fatal("Invalid pidfile:", err)
		}
	}
	if target <= 0 {
		target = os.Getpid()
	}

	err := syscall.Kill(target, syscall.SIGHUP)
	if err != nil {
		log.Fatal("Failed to send SIGHUP:", err)
	}
}
