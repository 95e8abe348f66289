// Package logger centraliza os logs do auditor no formato nível/módulo/operação.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var (
	mu      sync.Mutex
	out     = log.New(os.Stderr, "", log.LstdFlags)
	verbose bool
)

// Init redireciona a saída e liga o modo verboso (mostra INFO)
func Init(w io.Writer, verboso bool) {
	mu.Lock()
	defer mu.Unlock()
	out = log.New(w, "", log.LstdFlags)
	verbose = verboso
}

// Log escreve uma linha estruturada
func Log(level, module, operation, details string) {
	mu.Lock()
	defer mu.Unlock()
	if level == LevelInfo && !verbose {
		return
	}
	out.Printf("[%s] Module: %s, Operation: %s, Details: %s", level, module, operation, details)
}

// Info logs an informational message.
func Info(module, operation, details string) {
	Log(LevelInfo, module, operation, details)
}

// Warn logs a warning message.
func Warn(module, operation, details string) {
	Log(LevelWarn, module, operation, details)
}

// Error logs an error message.
func Error(module, operation, details string) {
	Log(LevelError, module, operation, details)
}

// Infof é o atalho com formatação
func Infof(module, operation, format string, args ...any) {
	Info(module, operation, fmt.Sprintf(format, args...))
}

// Warnf é o atalho com formatação
func Warnf(module, operation, format string, args ...any) {
	Warn(module, operation, fmt.Sprintf(format, args...))
}

// Errorf é o atalho com formatação
func Errorf(module, operation, format string, args ...any) {
	Error(module, operation, fmt.Sprintf(format, args...))
}
