package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/message"
)

// Result is the outcome of one scripted request.
type Result struct {
	Object  string
	Action  string
	Legacy  bool
	Status  message.Status
	Kind    message.ErrorKind
	Message string
	Err     error
	Data    any
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Err == nil && r.Status.IsSuccess() }

type job struct {
	req    message.Request
	legacy *message.LegacyRequest
	object string
	action string
}

// Run replays the request script against the service, at most
// Config.Concurrency requests at a time, and prints one line per request.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(context.WithoutCancel(ctx))
	}

	jobs := a.jobs()
	if len(jobs) == 0 {
		a.logger.Warn("No requests found in the request script, nothing to dispatch.")
		return nil
	}

	a.logger.Info("🚀 Dispatching requests...", "service", a.service.Name(), "requests", len(jobs), "concurrency", a.config.Concurrency)
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			resp := message.NewRecorder()
			var err error
			if j.legacy != nil {
				err = a.service.HandleLegacy(gctx, j.legacy, resp)
			} else {
				err = a.service.Handle(gctx, j.req, resp)
			}
			results[i] = Result{
				Object:  j.object,
				Action:  j.action,
				Legacy:  j.legacy != nil,
				Status:  resp.Status(),
				Kind:    resp.Kind(),
				Message: resp.Message(),
				Err:     err,
				Data:    resp.Data(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}
	a.results = results

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
		a.printResult(r)
	}
	a.logger.Info("🏁 Dispatch finished.", "requests", len(results), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(results))
	}
	return nil
}

func (a *App) jobs() []job {
	var jobs []job
	for _, r := range a.model.Requests {
		for n := 0; n < r.Count; n++ {
			jobs = append(jobs, job{
				req:    message.NewRequest(r.Object, r.Action, r.Payload),
				object: r.Object,
				action: r.Action,
			})
		}
	}
	for _, r := range a.model.LegacyRequests {
		method := r.Method
		if method == "" {
			method = "GET"
		}
		for n := 0; n < r.Count; n++ {
			jobs = append(jobs, job{
				legacy: &message.LegacyRequest{Resource: r.Resource, Method: r.Method, ID: r.ID, Body: r.Body},
				object: r.Resource,
				action: method,
			})
		}
	}
	return jobs
}

func (a *App) printResult(r Result) {
	target := r.Object + "." + r.Action
	if r.Legacy {
		target = "legacy " + r.Object + " " + r.Action
	}
	line := fmt.Sprintf("%d %s %s", int(r.Status), r.Status, target)
	if r.Kind != "" {
		line += " [" + string(r.Kind) + "]"
	}
	if r.Message != "" {
		line += ": " + r.Message
	}
	if r.Err != nil {
		line += " (" + r.Err.Error() + ")"
	}
	fmt.Fprintln(a.outW, line)
}
