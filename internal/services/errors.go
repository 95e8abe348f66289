package services

import "fmt"

// UserError é um erro com código e mensagem que pode ir para a tela
type UserError struct {
	Code    string
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// ErrValidation indica falha de validação da requisição
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrUnauthorized indica sessão ausente ou inválida
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("não autorizado: %s", e.Reason)
}

// ErrForbidden indica nonce inválido ou falta de permissão
type ErrForbidden struct {
	Reason string
}

func (e *ErrForbidden) Error() string {
	return e.Reason
}
