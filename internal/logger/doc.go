// Package logger is the application's diagnostic channel, a thin layer over zap.
//
// A single sugared logger writes to stderr at a level that can be changed while
// the program runs. Loggers can be carried in a context.Context with extra
// names and fields; every helper falls back to the global logger otherwise.
// Traffic itself is printed by the printer package, which may route its lines
// through this logger.
package logger
