// Package dto holds data transfer objects crossing the signal-type
// boundary.
package dto

import (
	"io"

	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/entities"
)

// ProviderArtifactDTO carries a resolved signal type together with the
// provider's WASM binary stream.
type ProviderArtifactDTO struct {
	SignalType *entities.SignalType
	WASM       io.ReadCloser
}

func NewProviderArtifactDTO(st *entities.SignalType, wasm io.ReadCloser) *ProviderArtifactDTO {
	return &ProviderArtifactDTO{
		SignalType: st,
		WASM:       wasm,
	}
}

func (d *ProviderArtifactDTO) Close() error {
	if d.WASM != nil {
		return d.WASM.Close()
	}
	return nil
}
