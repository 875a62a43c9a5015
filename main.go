package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ByLCY/faktura/config"
	"github.com/ByLCY/faktura/dsl"
	"github.com/ByLCY/faktura/generator"
	"github.com/ByLCY/faktura/layout"
	"github.com/ByLCY/faktura/logger"
	"github.com/ByLCY/faktura/renderer"
	htmlrenderer "github.com/ByLCY/faktura/renderer/html"
	"github.com/ByLCY/faktura/server"
)

func main() {
	input := flag.String("in", "examples/invoice.faktura", "发票文件路径")
	output := flag.String("out", "", "输出路径（默认 output/faktura-<číslo>.<格式>）")
	format := flag.String("format", "", "输出格式 pdf|html（默认取 OUTPUT_FORMAT）")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	serve := flag.Bool("serve", false, "以 HTTP 服务方式运行")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if *serve {
		if err := runServer(cfg, log); err != nil {
			log.Fatal().Err(err).Msg("HTTP 服务异常退出")
		}
		return
	}

	f := renderer.Format(cfg.Output.Format)
	if *format != "" {
		f = renderer.Format(*format)
	}
	files, err := run(cfg, log, *input, *output, *debug, f)
	if err != nil {
		log.Fatal().Err(err).Str("in", *input).Msg("生成发票失败")
	}
	for _, path := range files {
		fmt.Printf("已生成：%s\n", path)
	}
}

// run 串联解析、补全、布局与渲染。
func run(cfg *config.Config, log *logger.Logger, inputPath, outputPath, debugPath string, format renderer.Format) ([]string, error) {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开发票文件 %s: %w", inputPath, err)
	}
	draft, err := dsl.ParseDraft(string(src))
	if err != nil {
		return nil, fmt.Errorf("解析发票文件失败: %w", err)
	}

	gen, err := generator.FromConfig(cfg, log, htmlrenderer.StylesheetName)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Registry.Timeout+30*time.Second)
	defer cancel()

	if outputPath == "" {
		outputPath = filepath.Join("output", "faktura-"+draft.Number.String()+format.Extension())
	}
	if debugPath == "" {
		return gen.WriteFile(ctx, *draft, format, outputPath)
	}

	// 版式只计算一次，调试 JSON 与最终输出共用。
	if _, err := gen.Renderer(format); err != nil {
		return nil, err
	}
	inv, result, err := gen.Layout(ctx, *draft)
	if err != nil {
		return nil, err
	}
	if err := writeDebug(result, debugPath); err != nil {
		return nil, err
	}
	return gen.WriteLayout(inv, result, format, outputPath)
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func runServer(cfg *config.Config, log *logger.Logger) error {
	gen, err := generator.FromConfig(cfg, log, server.StylesheetPath)
	if err != nil {
		return err
	}
	srv, err := server.New(gen, log, server.Options{DefaultFormat: renderer.Format(cfg.Output.Format)})
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(cfg.HTTP.Addr()) }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	log.Info().Msg("收到退出信号，正在关闭服务")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
