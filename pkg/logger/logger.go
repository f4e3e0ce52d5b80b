package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/d60-Lab/photogram/config"
)

// 未调用 Init 前（例如单元测试）使用 Nop logger
var log = zap.NewNop()

// Init 按配置初始化全局 logger
func Init(cfg config.LogConfig) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return err
		}
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	log = l
	return nil
}

func Debug(msg string, fields ...zap.Field) { log.Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { log.Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { log.Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }

// Sync 刷新缓冲区，进程退出前调用
func Sync() { _ = log.Sync() }
