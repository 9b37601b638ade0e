// Package logx configures cronrs's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured, append-only
//   - Optional syslog sink (logging.output: syslog)
package logx
