package echoweb

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
)

var errInvalidCookie = errors.New("invalid session cookie")

// sessionCookie signs the browser's session id into a JWT kept in a cookie.
type sessionCookie struct {
	name    string
	issuer  string
	secret  []byte
	ttl     time.Duration
	secure  bool
	nowFunc func() time.Time
}

func newSessionCookie(conf *core.Config) sessionCookie {
	return sessionCookie{
		name:    conf.Server.SessionCookie,
		issuer:  conf.AppName,
		secret:  []byte(conf.SecretKey),
		ttl:     conf.Server.SessionTTL,
		secure:  !(conf.Debug || conf.TestMode),
		nowFunc: time.Now,
	}
}

// SessionCookieValue returns the cookie value a browser presents to resume session id.
func SessionCookieValue(conf *core.Config, id string) (string, error) {
	return newSessionCookie(conf).sign(id)
}

func (sc sessionCookie) sign(id string) (string, error) {
	now := sc.nowFunc()
	claims := jwt.StandardClaims{
		Id:        id,
		Issuer:    sc.issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(sc.ttl).Unix(),
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sc.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing session cookie")
	}
	return ss, nil
}

func (sc sessionCookie) parse(value string) (string, error) {
	claims := new(jwt.StandardClaims)
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidCookie
		}
		return sc.secret, nil
	})
	if err != nil || !token.Valid || claims.Id == "" || claims.Issuer != sc.issuer {
		return "", errInvalidCookie
	}
	return claims.Id, nil
}

// read returns the session id carried by the request, if any valid one.
func (sc sessionCookie) read(ctx echo.Context) (string, bool) {
	cookie, err := ctx.Cookie(sc.name)
	if err != nil {
		return "", false
	}
	id, err := sc.parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return id, true
}

func (sc sessionCookie) write(ctx echo.Context, id string) error {
	value, err := sc.sign(id)
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(sc.ttl / time.Second),
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
