//go:build !tinygo && !cgo

package hal

import "errors"

func RunWindow(_ HostConfig, _ func(HAL) error) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
