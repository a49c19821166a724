package logging

import (
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/bazodiac/internal/conventions"
)

// Longitude logs an ecliptic longitude in degrees.
func Longitude(deg float64) zap.Field {
	return zap.Float64("longitude_deg", deg)
}

// Branch logs a branch index together with its name.
func Branch(index int, name string) zap.Field {
	return zap.Dict("branch", zap.Int("index", index), zap.String("name", name))
}

// Mode logs a fusion mode.
func Mode(m conventions.FusionMode) zap.Field {
	return zap.Stringer("fusion_mode", m)
}

// Fingerprint logs a configuration fingerprint.
func Fingerprint(fp string) zap.Field {
	return zap.String("config_fingerprint", fp)
}

// Harmonic logs a harmonic order.
func Harmonic(k int) zap.Field {
	return zap.Int("harmonic_k", k)
}
