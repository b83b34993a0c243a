package errmap

import (
	"context"
	"errors"
	"net/http"

	resp "restaurante/internal/lib/api/response"

	"github.com/go-chi/render"
)

// Info is the HTTP side of an error.
type Info struct {
	Status  int
	Code    string
	Message string
}

type Mapping struct {
	Err     error
	Status  int
	Code    string
	Message string
}

// PublicMessager is implemented by errors that carry their own client-facing text.
// A mapping with an empty Message uses it.
type PublicMessager interface {
	PublicMessage() string
}

type Mapper struct {
	mappings []Mapping
	fallback Info
}

func New() *Mapper {
	return &Mapper{
		fallback: Info{
			Status:  http.StatusInternalServerError,
			Code:    resp.CodeInternal,
			Message: "Erro interno do servidor.",
		},
	}
}

func (m *Mapper) With(err error, status int, code, message string) *Mapper {
	m.mappings = append(m.mappings, Mapping{
		Err:     err,
		Status:  status,
		Code:    code,
		Message: message,
	})
	return m
}

func (m *Mapper) Map(err error) Info {
	if err == nil {
		return Info{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Info{Status: http.StatusGatewayTimeout, Code: "timeout", Message: "Tempo de resposta esgotado."}
	}

	for _, mapping := range m.mappings {
		if !errors.Is(err, mapping.Err) {
			continue
		}

		msg := mapping.Message
		if msg == "" {
			var pm PublicMessager
			if errors.As(err, &pm) {
				msg = pm.PublicMessage()
			}
		}

		return Info{Status: mapping.Status, Code: mapping.Code, Message: msg}
	}

	return m.fallback
}

// Render writes the mapped error as the standard error body.
func (m *Mapper) Render(w http.ResponseWriter, r *http.Request, err error) Info {
	info := m.Map(err)

	render.Status(r, info.Status)
	render.JSON(w, r, resp.Error(info.Code, info.Message))

	return info
}
