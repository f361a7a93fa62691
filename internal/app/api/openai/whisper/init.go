package whisper

import "github.com/Elandig/tabscribe/internal/app/api/provider"

func init() {
	provider.RegisterProvider(Name, createOpenAIProvider)
}

func createOpenAIProvider(cfg provider.Config) (provider.Adapter, error) {
	return NewRemoteTranscriber(cfg), nil
}
