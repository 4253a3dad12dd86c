package lock

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/nuki-esphome/nuki-go/pkg/event"
	"github.com/nuki-esphome/nuki-go/pkg/eventlog"
)

// Default refresh intervals for settings and authorization data.
const (
	DefaultConfigInterval   = time.Hour
	DefaultAuthDataInterval = 2 * time.Hour
)

// Run drives the component until ctx is cancelled: the pairing timer, the
// update loop, trigger dispatch, event recording and the periodic
// settings and authorization refreshes.
func (c *Component) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return ignoreDone(c.timer.Run(ctx)) })

	g.Go(func() error {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				c.Update(ctx)
			}
		}
	})

	if c.runner != nil && len(c.device.Triggers()) > 0 {
		sub, err := c.bus.Subscribe()
		if err != nil {
			return err
		}
		defer sub.Cancel()
		g.Go(func() error { return c.dispatch(ctx, sub) })
	}

	rec := &eventlog.Recorder{Logger: c.recorder, SessionID: c.session, DeviceID: DeviceID}
	recSub, err := c.bus.Subscribe(event.Kinds()...)
	if err != nil {
		return err
	}
	defer recSub.Cancel()
	g.Go(func() error { return ignoreDone(rec.Run(ctx, recSub)) })

	sched := c.schedule(ctx)
	sched.Start()
	g.Go(func() error {
		<-ctx.Done()
		<-sched.Stop().Done()
		return nil
	})

	return g.Wait()
}

// schedule registers the periodic refresh jobs.
func (c *Component) schedule(ctx context.Context) *cron.Cron {
	rc := c.device.Config()
	configEvery := rc.Duration("query_interval_config")
	if configEvery <= 0 {
		configEvery = DefaultConfigInterval
	}
	authEvery := rc.Duration("query_interval_auth_data")
	if authEvery <= 0 {
		authEvery = DefaultAuthDataInterval
	}

	s := cron.New()
	s.Schedule(cron.Every(configEvery), cron.FuncJob(func() {
		if !c.proto.IsPaired() {
			return
		}
		if err := c.RefreshSettings(ctx); err != nil {
			c.logger.Error("settings refresh", "error", err)
		}
	}))
	s.Schedule(cron.Every(authEvery), cron.FuncJob(func() {
		if !c.proto.IsPaired() {
			return
		}
		if err := c.RefreshAuthData(ctx); err != nil {
			c.logger.Error("auth data refresh", "error", err)
		}
	}))
	return s
}

func ignoreDone(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
