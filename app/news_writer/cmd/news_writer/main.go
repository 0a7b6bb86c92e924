package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/config"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/engine"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/logger"
	"github.com/iWorld-y/news_writer/app/news_writer/pkg/storage"
)

var (
	flagconf    string
	flagprofile string
	flagenv     string
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/news_writer/configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagprofile, "profile", "", "built-in profile: stock or finance (overrides the config file)")
	flag.StringVar(&flagenv, "env", ".env", "dotenv file with NEWS_API_KEY / OPENAI_API_KEY")
}

func main() {
	flag.Parse()

	// .env 不存在时只使用进程环境变量
	envErr := godotenv.Load(flagenv)

	// 1. 加载配置
	cfg, err := config.LoadConfig(flagconf, flagprofile)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("配置文件 %s 不存在，使用内置 profile 默认值", flagconf)
		cfg, err = config.LoadConfig("", flagprofile)
	}
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Infof("启动新闻改写 (profile: %s)...", cfg.Profile)

	if envErr != nil {
		logger.Log.Debugf("未加载 %s: %v", flagenv, envErr)
	}

	// 3. 密钥，缺失时只告警，后续请求会失败
	cfg.ApplyEnv(os.Getenv)
	for _, name := range cfg.MissingSecrets() {
		logger.Log.Warnf("未找到 %s，请检查 .env 文件或环境变量", name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. 可选的数据库归档
	var archive engine.Archiver
	if cfg.DB.Host != "" {
		a, err := storage.NewArchive(ctx, cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 将仅生成 CSV 文件。", err)
		} else {
			defer a.Close()
			archive = a
			logger.Log.Info("已成功连接到数据库")
		}
	}

	// 5. 运行
	e, err := engine.NewEngine(ctx, cfg, archive)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	summary, err := e.Run(ctx)
	if err != nil {
		logger.Log.Fatalf("运行失败: %v", err)
	}

	logger.Log.Infof("✅ 完成: 抓取 %d, 清洗后 %d, 生成成功 %d, 失败 %d",
		summary.Fetched, summary.Cleaned, summary.Generated, summary.Failed)
}
