// Package logger provides structured logging over zerolog.
//
// Loggers are scoped per component and take fields as maps:
//
//	log := logger.Get("discovery")
//	log.Info("domains loaded", logger.Fields("count", 3))
package logger
