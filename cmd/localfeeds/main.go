package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/empite/localfeeds/internal/config"
	"github.com/empite/localfeeds/internal/firebase"
	"github.com/empite/localfeeds/internal/location"
	"github.com/empite/localfeeds/internal/notify"
	ow "github.com/empite/localfeeds/internal/openweather"
	"github.com/empite/localfeeds/internal/places"
	ps "github.com/empite/localfeeds/internal/positionstack"
	"github.com/empite/localfeeds/internal/screen"
	"github.com/empite/localfeeds/internal/session"
	t "github.com/empite/localfeeds/internal/types"
	"github.com/empite/localfeeds/internal/weather"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const openWeatherBurst = 2

type screens struct {
	Weather     screen.State[screen.Forecast] `json:"weather"`
	Restaurants screen.State[[]t.Restaurant]  `json:"restaurants"`
}

func main() {
	email := flag.String("email", "", "Account email, overrides login_email")
	password := flag.String("password", "", "Account password, overrides login_password")
	signOut := flag.Bool("signout", true, "Sign out after both screens loaded")
	flag.Parse()

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	logger := baseLogger.Sugar()

	if err := config.LoadDotEnv(); err != nil {
		logger.Warnw("no .env file loaded", "error", err)
	}
	cfg, err := config.LoadClient()
	if err != nil {
		logger.Fatalw(err.Error(), "action", "LoadClient")
	}
	if *email == "" {
		*email = cfg.LoginEmail
	}
	if *password == "" {
		*password = cfg.LoginPassword
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier := notify.Logger{Logger: logger}

	holder := session.NewHolder(firebase.New(
		firebase.ApiKeyOption(cfg.FirebaseApiKey),
		firebase.BaseUrlOption(cfg.FirebaseBaseUrl),
	), logger)
	holder.Start()
	defer holder.Stop()

	form, user, err := screen.NewLogin(holder, notifier, logger).Submit(ctx, *email, *password)
	if errors.Is(err, screen.ErrInvalidForm) {
		logger.Fatalw("invalid login form", "email", form.Errors.Email, "password", form.Errors.Password)
	} else if err != nil {
		logger.Fatalw(err.Error(), "action", "SignIn")
	}
	logger.Infow("signed in", "uid", user.UID)

	var geocoder location.Geocoder
	if cfg.DeviceAddress != "" {
		geocoder = ps.New(
			ps.ApiKeyOption(cfg.PositionstackApiKey),
			ps.BaseUrlOption(cfg.PositionstackBaseUrl),
		)
	}
	platform := location.NewGeocodePlatform(geocoder, cfg.DeviceAddress,
		location.PermissionOption(cfg.LocationGranted))
	resolver := location.NewResolver(platform, notifier, logger)

	forecasts := weather.NewFetcher(ow.New(
		ow.ApiKeyOption(cfg.OpenWeatherApiKey),
		ow.BaseUrlOption(cfg.OpenWeatherBaseUrl),
		ow.RateLimitOption(cfg.OpenWeatherRps, openWeatherBurst),
	), logger)
	nearby := places.NewFetcher(places.New(cfg.PlacesProxyUrl), logger)

	weatherScreen := screen.NewWeather(resolver, forecasts, holder, logger)
	restaurantScreen := screen.NewRestaurants(resolver, nearby, holder, logger)

	var out screens
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Weather = weatherScreen.Mount(gctx)
		return nil
	})
	g.Go(func() error {
		out.Restaurants = restaurantScreen.Mount(gctx)
		return nil
	})
	_ = g.Wait()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Errorw(err.Error(), "action", "Encode")
	}

	if *signOut {
		weatherScreen.SignOut(ctx)
		if u, _ := holder.User(); u == nil {
			logger.Infow("signed out")
		}
	}
}
