package charts

import (
	"context"
	"fmt"
	"html/template"

	"signalcharts/internal/fetchers"
	"signalcharts/internal/logger"
	"signalcharts/internal/metrics"
)

// ErrorNotice replaces a container whose chart could not be loaded.
const ErrorNotice template.HTML = `
<div class="alert alert-danger">
    <i class="fas fa-exclamation-circle me-2"></i>
    Error loading chart data
</div>
`

// Updater carries what UpdateChartFromAPI needs besides the chart itself.
type Updater struct {
	client fetchers.JSONGetter
	board  *Board
	log    *logger.Logger
}

// NewUpdater creates an updater that fetches with client and reports
// failures on board.
func NewUpdater(client fetchers.JSONGetter, board *Board, log *logger.Logger) *Updater {
	if log == nil {
		log = logger.Component("charts")
	}
	return &Updater{client: client, board: board, log: log}
}

// UpdateChartFromAPI fetches url, decodes the JSON body, applies transform
// when it is not nil, and renders the result with factory, a chart factory
// such as (*Generator).WinrateChart. Any failure is
// logged and replaces the surface's container with ErrorNotice; it is never
// returned. The rendered instance is returned on success, nil otherwise.
func UpdateChartFromAPI[S, T any](ctx context.Context, u *Updater, url string, factory func(string, T) (*Instance, error), surfaceID string, transform func(S) T) *Instance {
	var data T
	if transform == nil {
		var body *T
		if err := decodeBody(ctx, u, url, &body); err != nil {
			u.fail(surfaceID, url, "Error fetching data for chart", err)
			return nil
		}
		data = *body
	} else {
		var body *S
		if err := decodeBody(ctx, u, url, &body); err != nil {
			u.fail(surfaceID, url, "Error fetching data for chart", err)
			return nil
		}
		data = transform(*body)
	}

	inst, err := factory(surfaceID, data)
	if err != nil {
		u.fail(surfaceID, url, "Error rendering chart", err)
		return nil
	}
	return inst
}

// decodeBody decodes into *out and rejects a JSON null body.
func decodeBody[V any](ctx context.Context, u *Updater, url string, out **V) error {
	if err := u.client.GetJSON(ctx, url, out); err != nil {
		return err
	}
	if *out == nil {
		return fmt.Errorf("%w: empty response from %s", ErrInvalidInput, url)
	}
	return nil
}

func (u *Updater) fail(surfaceID, url, msg string, err error) {
	fields := logger.Fields{"surface": surfaceID, "url": url}
	u.log.Error(msg, err, fields)
	metrics.ChartLoadFailures.WithLabelValues(surfaceID).Inc()

	surface, lookupErr := u.board.Surface(surfaceID)
	if lookupErr != nil {
		u.log.Error("Cannot display chart error notice", lookupErr, fields)
		return
	}
	surface.Container.Replace(ErrorNotice)
}
