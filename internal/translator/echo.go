package translator

import "context"

// echoBackend returns its input unchanged. Used for dry runs.
type echoBackend struct{}

// NewEchoBackend creates the identity backend
func NewEchoBackend() Backend {
	return echoBackend{}
}

func (echoBackend) Name() string {
	return BackendEcho
}

func (echoBackend) Translate(ctx context.Context, text string, _ string, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return text, nil
}
