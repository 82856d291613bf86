package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/natserract/mautic/pkg/config"
	"github.com/natserract/mautic/pkg/mautic"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var (
	ErrInvalidKeyValue = errors.New("expected key=value")
	ErrNotOAuth2       = errors.New("command requires MAUTIC_AUTH_MODE=oauth2")
)

// App carries what every command needs. Session is replaceable for tests.
type App struct {
	Logger  *zap.Logger
	Out     io.Writer
	Err     io.Writer
	Session func() (mautic.Session, error)
}

func NewApp(logger *zap.Logger, out, errOut io.Writer) *App {
	app := &App{
		Logger: logger,
		Out:    out,
		Err:    errOut,
	}
	app.Session = app.sessionFromEnv
	return app
}

func (a *App) sessionFromEnv() (mautic.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		a.Logger.Error("Failed to load config", zap.Error(err))
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return mautic.NewSessionFromConfig(cfg, a.Logger, a.reportToken)
}

// reportToken prints refreshed tokens so the caller can store them; the
// CLI itself keeps nothing between runs.
func (a *App) reportToken(token *oauth2.Token) {
	a.Logger.Info("Access token refreshed", zap.Time("expires_at", token.Expiry))
	fmt.Fprintf(a.Err, "MAUTIC_ACCESS_TOKEN=%s\nMAUTIC_REFRESH_TOKEN=%s\nMAUTIC_TOKEN_EXPIRY=%s\n",
		token.AccessToken, token.RefreshToken, token.Expiry.Format("2006-01-02T15:04:05Z07:00"))
}

func (a *App) api(endpoint string) (*mautic.BaseAPI, error) {
	session, err := a.Session()
	if err != nil {
		return nil, err
	}
	return mautic.NewBaseAPIWithLogger(session, endpoint, a.Logger), nil
}

// printResponse writes structured data as indented JSON and raw bodies as is.
func printResponse(w io.Writer, resp *mautic.Response) error {
	if !resp.IsStructured() {
		_, err := w.Write(append(resp.Raw, '\n'))
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp.Data)
}

// parseKeyValues turns key=value arguments into form values. Repeated keys
// are kept in order.
func parseKeyValues(args []string) (url.Values, error) {
	values := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKeyValue, arg)
		}
		values.Add(key, value)
	}
	return values, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}
