package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"DeliveryInsights/src/config"
	"DeliveryInsights/src/storage"
)

func main() {
	jsonFolder := flag.String("config", "./config", "配置目录")
	mode := flag.String("mode", "build", "build: 生成一次报表; serve: 常驻并按需重建")
	flag.Parse()

	os.Exit(run(*jsonFolder, *mode))
}

func run(jsonFolder, mode string) int {
	cfg, dcfg, err := config.LoadConfig(jsonFolder, "config.json", "dataconfig.json")
	if err != nil {
		log.Print("Failed to load config:", err)
		return 1
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Print("Failed to initialize logger:", err)
		return 1
	}
	defer logger.Close()

	a, err := newApp(cfg, dcfg, logger)
	if err != nil {
		logger.Fatal(err.Error())
		log.Print(err)
		return 1
	}
	defer a.Close()

	switch mode {
	case "build":
		err = a.build(false)
	case "serve":
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		err = a.serve(sigChan)
	default:
		log.Printf("unknown mode %q", mode)
		return 2
	}
	if err != nil {
		logger.Error(err.Error())
		log.Print(err)
		return 1
	}
	return 0
}
