package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"errors"
	"flag"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/uartpump/pkg/framework"
	"github.com/robotalks/uartpump/pkg/l1/env"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	e := env.NewConfig().MustNewEnv()
	defer e.Close()

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("loop", fx.NewLoop().Add(e)))
	err := runner.Wait()
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		glog.Errorf("stopped: %v", err)
	}
	stats := e.Pump.Stats()
	glog.Infof("received=%d dropped=%d processed=%d (start=%d end=%d data=%d)",
		stats.Received, stats.Dropped, stats.Processed, stats.Starts, stats.Ends, stats.Data)
}
