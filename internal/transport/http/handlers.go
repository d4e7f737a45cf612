// transport/http реализует REST-эндпоинты сервиса аутентификации.
// Здесь выполняется только разбор запросов и маппинг данных и ошибок
// доменного слоя (service) в HTTP. Вся бизнес-логика — в пакете service.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/service"
)

var (
	errBadJSON  = errors.New("bad json body")
	errNoBearer = errors.New("missing bearer token")
)

// Server агрегирует зависимости HTTP-слоя.
type Server struct {
	svc *service.Service
}

// NewServer создаёт HTTP-слой поверх сервисного.
func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

type signUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type reissueRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type validateRequest struct {
	AccessToken string `json:"access_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenPairResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	AccessExpiresAt  int64  `json:"access_expires_at"`  // Unix UTC
	RefreshExpiresAt int64  `json:"refresh_expires_at"` // Unix UTC
}

type validateResponse struct {
	Valid    bool     `json:"valid"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

func pairToResponse(p *models.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		AccessExpiresAt:  p.AccessExpiresAt.Unix(),
		RefreshExpiresAt: p.RefreshExpiresAt.Unix(),
	}
}

// SignUp регистрирует пользователя.
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var in signUpRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, errBadJSON)
		return
	}

	if err := s.svc.SignUp(r.Context(), in.Username, in.Password, in.Phone, in.Email); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "user created"})
}

// Login аутентифицирует пользователя и открывает сессию.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, errBadJSON)
		return
	}

	pair, err := s.svc.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pairToResponse(pair))
}

// Reissue выпускает новую пару токенов по живому refresh-токену.
func (s *Server) Reissue(w http.ResponseWriter, r *http.Request) {
	var in reissueRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, errBadJSON)
		return
	}

	pair, err := s.svc.Reissue(r.Context(), in.AccessToken, in.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pairToResponse(pair))
}

// Logout завершает сессию предъявителя access-токена.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, r, errNoBearer)
		return
	}

	if err := s.svc.Logout(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

// GrantAdminRole повышает роль предъявителя access-токена.
// Identity устанавливается здесь, из проверенного токена, и передаётся
// в сервис явным параметром.
func (s *Server) GrantAdminRole(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, r, errNoBearer)
		return
	}

	id, err := s.svc.ValidateAccess(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.svc.GrantAdminRole(r.Context(), id.Username); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "admin role granted"})
}

// Validate проверяет access-токен (подпись, срок, чёрный список).
// Невалидный токен — не ошибка RPC: ответ {valid:false} (контракт эндпоинта).
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var in validateRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, errBadJSON)
		return
	}

	id, err := s.svc.ValidateAccess(r.Context(), in.AccessToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeJSON(w, http.StatusOK, validateResponse{Valid: false})
			return
		}

		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:    true,
		Username: id.Username,
		Roles:    id.Roles,
	})
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// bearerToken извлекает токен из заголовка Authorization.
func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}

	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", false
	}

	return token, true
}
