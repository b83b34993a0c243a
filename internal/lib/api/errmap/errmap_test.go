package errmap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var errMissing = errors.New("missing")

type quotaError struct{ n int }

func (e quotaError) Error() string         { return fmt.Sprintf("quota %d", e.n) }
func (e quotaError) Is(target error) bool  { return target == errQuota }
func (e quotaError) PublicMessage() string { return fmt.Sprintf("Limite de %d atingido.", e.n) }

var errQuota = errors.New("quota")

func TestMap(t *testing.T) {
	m := New().
		With(errMissing, http.StatusNotFound, "missing", "Não encontrado.").
		With(errQuota, http.StatusUnprocessableEntity, "quota", "")

	tests := []struct {
		name string
		err  error
		want Info
	}{
		{
			name: "wrapped sentinel",
			err:  fmt.Errorf("op: %w", errMissing),
			want: Info{Status: http.StatusNotFound, Code: "missing", Message: "Não encontrado."},
		},
		{
			name: "public message from error",
			err:  fmt.Errorf("op: %w", quotaError{n: 3}),
			want: Info{Status: http.StatusUnprocessableEntity, Code: "quota", Message: "Limite de 3 atingido."},
		},
		{
			name: "deadline",
			err:  fmt.Errorf("op: %w", context.DeadlineExceeded),
			want: Info{Status: http.StatusGatewayTimeout, Code: "timeout", Message: "Tempo de resposta esgotado."},
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: Info{Status: http.StatusInternalServerError, Code: "internal", Message: "Erro interno do servidor."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, m.Map(tt.err)); diff != "" {
				t.Errorf("Map mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
