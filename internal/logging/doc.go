// Package logging provides structured logging for instinctd.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Automatic context field injection (operation, store path)
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx := logging.WithOperation(ctx, "import")
//	logger.Info(ctx, "records imported", zap.Int("added", n))
//
// Output includes automatic correlation:
//
//	{
//	  "ts": "2026-08-26T10:15:30Z",
//	  "level": "info",
//	  "msg": "records imported",
//	  "op": "import",
//	  "added": 4
//	}
//
// # Sampling
//
// Level-aware sampling prevents log floods:
//   - Info and below: first 100, then 1 every 10
//   - Error+: never sampled
//
// Disable for debugging:
//
//	cfg.Sampling.Enabled = false
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Warn(ctx, "store corrupt", zap.String("path", p))
//	tl.AssertLogged(t, zapcore.WarnLevel, "store corrupt")
//	tl.AssertField(t, "store corrupt", "path", p)
//
// # Concurrency Safety
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging
