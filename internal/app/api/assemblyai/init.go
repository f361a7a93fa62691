package assemblyai

import "github.com/Elandig/tabscribe/internal/app/api/provider"

func init() {
	provider.RegisterProvider(Name, func(cfg provider.Config) (provider.Adapter, error) {
		return New(cfg), nil
	})
}
