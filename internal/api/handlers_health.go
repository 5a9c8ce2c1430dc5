// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds each dependency probe.
const healthCheckTimeout = 2 * time.Second

// Health reports liveness plus the state of each registered
// dependency probe. Any failing probe turns the response into a 503 so
// load balancers rotate the instance out.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	for name, probe := range h.healthChecks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := probe(ctx)
		cancel()
		if err != nil {
			checks[name] = "down: " + err.Error()
			healthy = false
		} else {
			checks[name] = "up"
		}
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	WriteJSON(w, r, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}
