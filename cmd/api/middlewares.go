package main

import (
	"context"
	"fmt"
	"moviecatalog/proj/internal/metrics"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

func (app *Application) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil && rvr != http.ErrAbortHandler {
				err, ok := rvr.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rvr)
				}
				w.Header().Set("Connection", "close")
				app.Http.ServerError(w, r, err, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

const limiterClientTTL = 5 * time.Minute

func (app *Application) RateLimiter(next http.Handler) http.Handler {
	const op = "middlewares.RateLimiter"
	log := app.log.With("op", op)
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	clients := make(map[string]*client)
	var mu sync.Mutex
	go func() {
		for {
			time.Sleep(limiterClientTTL)
			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > limiterClientTTL {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.cfg.Limiter.Enabled {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				app.Http.ServerError(w, r, err, "")
				return
			}
			mu.Lock()
			c, ok := clients[ip]
			if !ok {
				c = &client{limiter: rate.NewLimiter(rate.Limit(app.cfg.Limiter.Rps), app.cfg.Limiter.Burst)}
				clients[ip] = c
			}
			c.lastSeen = time.Now()
			allowed := c.limiter.Allow()
			mu.Unlock()
			if !allowed {
				log.Warn("rate limit exceeded", "ip", ip)
				app.Http.Response(
					w, r,
					envelop{"error": "rate limit exceeded"},
					"Can't process request see an error below.",
					http.StatusTooManyRequests,
				)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type CtxKey string

const CtxKeyViewer CtxKey = "viewer"

func viewerFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(CtxKeyViewer).(int)
	return id, ok
}

// Authenticate puts the sub_user_id claim of a valid bearer token into the request context.
// Requests without Authorization header pass through untouched.
func (app *Application) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}
		const bearerLength = len("Bearer ")
		if !strings.HasPrefix(authHeader, "Bearer ") || len(authHeader) < bearerLength+1 {
			app.log.Warn("Invalid auth header", "header", authHeader)
			app.Http.BadRequest(w, r, "Invalid Authorization header, should be 'Bearer <token>'")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
			return []byte(app.cfg.AppSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsedToken.Valid {
			app.log.Warn("Invalid or expired token", "reason", err)
			app.Http.Unauthorized(w, r, "Invalid or expired token")
			return
		}
		if claims, ok := parsedToken.Claims.(jwt.MapClaims); ok {
			app.log.Debug("Has claims", "claims", claims)
			if subUserID, exists := claims["sub_user_id"].(float64); exists && subUserID >= 1 {
				r = r.WithContext(context.WithValue(r.Context(), CtxKeyViewer, int(subUserID)))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Metrics records request count and latency labeled by the matched route pattern.
func (app *Application) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(status), time.Since(start))
	})
}
