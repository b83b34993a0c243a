// Package web renders the booking pages (login, admin, reservation) and forwards their forms to the API.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"restaurante/internal/clients/restaurante"
	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/models"

	"github.com/go-chi/chi/middleware"
)

//go:embed templates/layout.html templates/index.html templates/admin.html templates/reserva.html
var templatesFS embed.FS

type Page string

const (
	PageNone    Page = ""
	PageLogin   Page = "index.html"
	PageAdmin   Page = "admin.html"
	PageReserva Page = "reserva.html"
)

const (
	formLogin   = "loginForm"
	formUser    = "usuarioForm"
	formTable   = "mesaForm"
	formReserva = "reservaForm"
)

const (
	noTablesPlaceholder = "Nenhuma mesa cadastrada. Use o Painel Admin."
	loadingPlaceholder  = "Buscando dados da API..."
)

// API is the part of the booking API the pages use.
type API interface {
	ListTables(ctx context.Context) ([]models.Table, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error)
	CreateTable(ctx context.Context, req models.CreateTableRequest) (models.Table, error)
	CreateReservation(ctx context.Context, in restaurante.ReservationInput) (models.Reservation, error)
}

type Options struct {
	// UserID is sent as usuarioId on every reservation.
	UserID             int64
	LoginRedirectDelay time.Duration
	// PageTimeout bounds all API calls of one page request together; keep it below the server's write timeout.
	PageTimeout time.Duration
}

type Pages struct {
	log       *slog.Logger
	api       API
	opts      Options
	templates map[Page]*template.Template
}

type pageData struct {
	Title       string
	Message     *Message
	Placeholder string
	Tables      []models.Table
}

type formHandler func(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, data *pageData)

func New(log *slog.Logger, api API, opts Options) *Pages {
	if opts.UserID <= 0 {
		opts.UserID = 1
	}

	p := &Pages{
		log:       log,
		api:       api,
		opts:      opts,
		templates: make(map[Page]*template.Template),
	}

	for _, page := range []Page{PageLogin, PageAdmin, PageReserva} {
		p.templates[page] = template.Must(template.ParseFS(templatesFS, "templates/layout.html", "templates/"+string(page)))
	}

	return p
}

// resolvePage picks the page by substring, so "/static/admin.html" is the admin page too.
func resolvePage(path string) Page {
	switch {
	case strings.Contains(path, string(PageAdmin)):
		return PageAdmin
	case strings.Contains(path, string(PageReserva)):
		return PageReserva
	case strings.Contains(path, string(PageLogin)):
		return PageLogin
	default:
		return PageNone
	}
}

func (p *Pages) Redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+string(PageLogin), http.StatusFound)
}

// ServeHTTP renders the page on GET and runs the submitted form on POST.
func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.ServeHTTP"

	page := resolvePage(r.URL.Path)

	log := p.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("page", string(page)),
	)

	if page == PageNone {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	if p.opts.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.PageTimeout)
		defer cancel()
	}

	data := &pageData{Title: pageTitle(page)}

	if page == PageReserva {
		p.loadTables(ctx, log, data)
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			log.Warn("failed to parse form", sl.Err(err))

			http.Error(w, "Formulário inválido", http.StatusBadRequest)

			return
		}

		formID := r.PostFormValue("form")

		handle, ok := p.forms(page)[formID]
		if !ok {
			log.Warn("form is not wired for page", slog.String("form", formID))

			http.Error(w, "Formulário desconhecido", http.StatusBadRequest)

			return
		}

		handle(ctx, log.With(slog.String("form", formID)), w, r, data)
	}

	if err := renderHTMLTemplate(w, p.templates[page], data); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}

func (p *Pages) forms(page Page) map[string]formHandler {
	switch page {
	case PageLogin:
		return map[string]formHandler{formLogin: p.login}
	case PageAdmin:
		return map[string]formHandler{formUser: p.createUser, formTable: p.createTable}
	case PageReserva:
		return map[string]formHandler{formReserva: p.createReservation}
	default:
		return nil
	}
}

func (p *Pages) loadTables(ctx context.Context, log *slog.Logger, data *pageData) {
	tables, err := p.api.ListTables(ctx)
	if err != nil {
		log.Warn("failed to load tables", sl.Err(err))

		if stErr, ok := asStatusError(err); ok {
			data.Placeholder = loadingPlaceholder
			data.Message = Failure(fmt.Sprintf("Erro ao carregar mesas. Status: %d", stErr.Status))

			return
		}

		data.Message = errorMessage(err)

		return
	}

	if len(tables) == 0 {
		data.Placeholder = noTablesPlaceholder
	}
	data.Tables = tables
	data.Message = Success(fmt.Sprintf("Mesas carregadas (%d itens). Pronto para reservar.", len(tables)))
}

func (p *Pages) login(_ context.Context, log *slog.Logger, w http.ResponseWriter, _ *http.Request, data *pageData) {
	// вход не проверяется, любая отправка формы пускает дальше
	log.Info("login accepted")

	w.Header().Set("Refresh", fmt.Sprintf("%d; url=/%s", redirectSeconds(p.opts.LoginRedirectDelay), PageReserva))
	data.Message = Success("Login bem-sucedido. Redirecionando...")
}

func (p *Pages) createUser(ctx context.Context, log *slog.Logger, _ http.ResponseWriter, r *http.Request, data *pageData) {
	user, err := p.api.CreateUser(ctx, models.CreateUserRequest{
		Name:     r.PostFormValue("userName"),
		Email:    r.PostFormValue("userEmail"),
		Password: r.PostFormValue("userSenha"),
	})
	if err != nil {
		log.Warn("failed to create user", sl.Err(err))

		data.Message = errorMessage(err)

		return
	}

	data.Message = Success(fmt.Sprintf("USUÁRIO CRIADO! ID: %d, Nome: %s.", user.ID, user.Name))
}

func (p *Pages) createTable(ctx context.Context, log *slog.Logger, _ http.ResponseWriter, r *http.Request, data *pageData) {
	table, err := p.api.CreateTable(ctx, models.CreateTableRequest{
		Number:   formInt(r.PostFormValue("mesaNumero")),
		Capacity: formInt(r.PostFormValue("mesaCapacidade")),
	})
	if err != nil {
		log.Warn("failed to create table", sl.Err(err))

		data.Message = errorMessage(err)

		return
	}

	data.Message = Success(fmt.Sprintf("MESA CRIADA! ID: %d, Número: %d.", table.ID, table.Number))
}

func (p *Pages) createReservation(ctx context.Context, log *slog.Logger, _ http.ResponseWriter, r *http.Request, data *pageData) {
	res, err := p.api.CreateReservation(ctx, restaurante.ReservationInput{
		UserID:    p.opts.UserID,
		TableID:   int64(formInt(r.PostFormValue("reservaMesaId"))),
		Start:     r.PostFormValue("dataHoraInicio") + ":00",
		PartySize: formInt(r.PostFormValue("numPessoas")),
	})
	if err != nil {
		log.Warn("failed to create reservation", sl.Err(err))

		data.Message = errorMessage(err)

		return
	}

	data.Message = Success(
		"RESERVA SUCESSO!",
		fmt.Sprintf("ID da Reserva: %d.", res.ID),
		fmt.Sprintf("Mesa: %d.", res.Table.Number),
		fmt.Sprintf("Início: %s | Fim: %s", clockOrEmpty(res.Start), clockOrEmpty(res.End)),
	)
}

// clockOrEmpty leaves a missing time blank instead of rendering 00:00.
func clockOrEmpty(t models.LocalDateTime) string {
	if t.IsZero() {
		return ""
	}
	return t.Clock()
}

func pageTitle(page Page) string {
	switch page {
	case PageAdmin:
		return "Painel Admin"
	case PageReserva:
		return "Reservas"
	default:
		return "Login"
	}
}

// formInt parses an integer field; anything unparsable is sent as 0 and left for the API to reject.
func formInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

func redirectSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func asStatusError(err error) (*restaurante.StatusError, bool) {
	var stErr *restaurante.StatusError
	ok := errors.As(err, &stErr)
	return stErr, ok
}

func renderHTMLTemplate(w http.ResponseWriter, tmpl *template.Template, data *pageData) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "Erro ao renderizar a página", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := w.Write(buf.Bytes())
	return err
}
