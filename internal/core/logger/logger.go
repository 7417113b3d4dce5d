package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileRotate 与配置 log.file 一一对应
type FileRotate struct {
	Enable     bool
	Filename   string // 默认 logs/app.log
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Options struct {
	Level   string // debug / info / warn / error，非法值按 info
	JSON    bool   // 控制台输出格式；文件始终是 JSON
	Service string // 非空时每条日志带 service 字段
	Caller  bool
	Rotate  FileRotate
	Output  io.Writer // 默认 os.Stdout；设置后强制 JSON，方便测试解析
	// SampleInitial 同一条消息每秒前 N 条全记，之后每 N 条记一条；0 不采样
	SampleInitial int
}

// New 只写 stdout，给一次性命令用
func New(level string, json bool) (*zap.Logger, func()) {
	return NewWithOptions(Options{Level: level, JSON: json, Caller: true})
}

// NewWithOptions 返回 logger 和收尾函数（flush + 关闭日志文件）
func NewWithOptions(opt Options) (*zap.Logger, func()) {
	lvl := parseLevel(opt.Level)

	out := opt.Output
	if out == nil {
		out = os.Stdout
	}
	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(opt.JSON || opt.Output != nil), zapcore.AddSync(out), lvl),
	}

	var file *lumberjack.Logger
	if opt.Rotate.Enable {
		file = rotating(opt.Rotate)
		cores = append(cores, zapcore.NewCore(newEncoder(true), zapcore.AddSync(file), lvl))
	}

	core := zapcore.NewTee(cores...)
	if opt.SampleInitial > 0 {
		core = zapcore.NewSamplerWithOptions(core, time.Second, opt.SampleInitial, opt.SampleInitial)
	}

	var zopts []zap.Option
	if opt.Caller {
		zopts = append(zopts, zap.AddCaller())
	}
	l := zap.New(core, zopts...)
	if opt.Service != "" {
		l = l.With(zap.String("service", opt.Service))
	}

	return l, func() {
		_ = l.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func newEncoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func rotating(r FileRotate) *lumberjack.Logger {
	name := r.Filename
	if name == "" {
		name = "logs/app.log"
	}
	return &lumberjack.Logger{
		Filename:   name,
		MaxSize:    max(1, r.MaxSizeMB),
		MaxBackups: max(0, r.MaxBackups),
		MaxAge:     max(0, r.MaxAgeDays),
		Compress:   r.Compress,
	}
}

// lineWriter 一次 Write 可能带多行（gin 路由表），逐行记，空行丢弃
type lineWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w *lineWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		msg := strings.TrimSpace(line)
		if msg == "" {
			continue
		}
		if ce := w.l.Check(w.level, msg); ce != nil {
			ce.Write()
		}
	}
	return len(p), nil
}

// ToWriter 给 gin.DefaultWriter / DefaultErrorWriter 用
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return &lineWriter{l: l, level: level}
}

// ToStdLogger 给只接受 *log.Logger 的库（gorm logger）用
func ToStdLogger(l *zap.Logger, level zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l, level)
}

// RedirectStdLog 标准库 log 包的输出转到 zap；返回还原函数
func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		l.Warn("redirect std log", zap.Error(err))
		return func() {}
	}
	return undo
}
