package web

import (
	"errors"
	"fmt"
	"strings"

	"restaurante/internal/clients/restaurante"
)

// Message is what the page shows in its #output element.
type Message struct {
	Lines   []string
	IsError bool
}

func Success(lines ...string) *Message {
	return &Message{Lines: lines}
}

func Failure(lines ...string) *Message {
	return &Message{Lines: lines, IsError: true}
}

func (m Message) Icon() string {
	if m.IsError {
		return "❌"
	}
	return "✅"
}

func (m Message) Class() string {
	if m.IsError {
		return "message error"
	}
	return "message success"
}

// Text joins the lines the way they are rendered, with a line break between them.
func (m Message) Text() string {
	return strings.Join(m.Lines, "\n")
}

// errorMessage turns an API client error into the message shown to the user.
func errorMessage(err error) *Message {
	var (
		srvErr *restaurante.ServerError
		stErr  *restaurante.StatusError
		trErr  *restaurante.TransportError
	)

	switch {
	case errors.As(err, &trErr):
		return Failure(fmt.Sprintf("Erro de Conexão: O servidor da API pode estar offline. Detalhes: %v", trErr.Err))
	case errors.As(err, &srvErr):
		return Failure(fmt.Sprintf("FALHA NA LÓGICA: %s.", strings.TrimRight(srvErr.Message, ".!")))
	case errors.As(err, &stErr):
		if stErr.Message == "" {
			return Failure(fmt.Sprintf("Requisição recusada pela API. Status: %d", stErr.Status))
		}
		return Failure(fmt.Sprintf("Requisição recusada pela API. Status: %d - %s", stErr.Status, stErr.Message))
	default:
		return Failure(fmt.Sprintf("Resposta inesperada da API: %v", err))
	}
}
