//go:build js && wasm
// +build js,wasm

package main

import (
	particle "github.com/esimov/ascii-seasons/particle-system"
	"github.com/esimov/ascii-seasons/wasm/canvas"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.StacktraceKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	log := logger.Sugar()

	profile, err := loadProfile()
	if err != nil {
		log.Errorw("could not load the effect", "error", err)
		return
	}

	c, err := canvas.NewCanvas("effect", profile)
	if err != nil {
		log.Errorw("could not bind the canvas", "error", err)
		return
	}
	pools, err := profile.Pools(c.Bounds(), nil)
	if err != nil {
		c.Alert(err.Error())
		return
	}

	d := particle.NewDriver(canvas.NewRAFScheduler(),
		particle.WithLogger(log),
		particle.WithImpulse(profile.NewImpulse()),
	)
	d.Register(pools...)
	d.OnFrame(c.Render)
	c.Listen(d)
	d.Start()

	select {}
}

// loadProfile picks the effect from the page url: ?profile=lanterns.yaml loads
// a profile file, ?effect=snow selects a preset. Fire is the default.
func loadProfile() (particle.Profile, error) {
	if path := canvas.Query("profile"); path != "" {
		return canvas.FetchProfile(path)
	}
	name := canvas.Query("effect")
	if name == "" {
		name = "fire"
	}
	return particle.Preset(name)
}
