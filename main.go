package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/Uffe-Code/go-odata-http/config"
	"github.com/Uffe-Code/go-odata-http/logging"
	"github.com/Uffe-Code/go-odata-http/odataClient"
	"github.com/Uffe-Code/go-odata-http/odataQuery"
	"github.com/Uffe-Code/go-odata-http/odataRoute"
	"go.uber.org/zap"
)

type output struct {
	Value       any                    `json:"value"`
	Annotations odataRoute.Annotations `json:"annotations,omitempty"`
}

func usage(w io.Writer, executable string) {
	switch executable {
	case "./odata-get":
		fmt.Fprintln(w, "Usage: ./odata-get <configfile> <resource> [query]")
	case "odata-get":
		fmt.Fprintln(w, "Usage: odata-get <configfile> <resource> [query]")
	default:
		fmt.Fprintln(w, "Usage: go run main.go <configfile> <resource> [query]")
	}
	fmt.Fprintln(w, `Example: odata-get config.yaml "People('russellwhyte')" '$select=FirstName,LastName&$expand=Friends'`)
}

// rawValues splits a query string without unescaping it, since query options are sent as given.
func rawValues(query string) url.Values {
	values := url.Values{}
	for _, pair := range strings.Split(strings.TrimPrefix(query, "?"), "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		values.Add(name, value)
	}
	return values
}

// logMetrics writes the request metrics of this run at debug level.
func logMetrics(logger *zap.Logger, metrics *odataClient.Metrics) {
	families, err := metrics.Registry().Gather()
	if err != nil {
		logger.Warn("failed to gather metrics", zap.Error(err))
		return
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			fields := []zap.Field{zap.String("metric", family.GetName())}
			for _, label := range metric.GetLabel() {
				fields = append(fields, zap.String(label.GetName(), label.GetValue()))
			}
			if counter := metric.GetCounter(); counter != nil {
				fields = append(fields, zap.Float64("value", counter.GetValue()))
			}
			if histogram := metric.GetHistogram(); histogram != nil {
				fields = append(fields, zap.Uint64("count", histogram.GetSampleCount()), zap.Float64("sum", histogram.GetSampleSum()))
			}
			logger.Debug("odata metrics", fields...)
		}
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) int {

	executable := args[0]
	if len(args) < 3 || len(args) > 4 {
		usage(stdout, executable)
		return 1
	}
	resource := strings.TrimLeft(args[2], "/")
	query := ""
	if len(args) == 4 {
		query = args[3]
	}

	cfg, err := config.Load(args[1])
	if err != nil {
		bootstrap := logging.NewDefault()
		bootstrap.Error("failed to load config", zap.String("path", args[1]), zap.Error(err))
		_ = bootstrap.Sync()
		return 1
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stdout, "Error while creating logger: %s\n", err.Error())
		return 1
	}
	defer func() { _ = logger.Sync() }()

	options, err := odataQuery.FromValues(rawValues(query))
	if err != nil {
		logger.Error("invalid query options", zap.String("query", query), zap.Error(err))
		return 1
	}

	metrics := odataClient.NewMetrics()
	client, err := odataClient.New(cfg.Client, odataClient.WithLogger(logger), odataClient.WithMetrics(metrics))
	if err != nil {
		logger.Error("failed to create client", zap.Error(err))
		return 1
	}
	defer logMetrics(logger, metrics)

	route := odataRoute.New[output](client, []odataRoute.Segment{odataRoute.Lit(resource)},
		func(value any, annotations odataRoute.Annotations) (output, error) {
			return output{Value: value, Annotations: annotations}, nil
		})

	result, err := route.Call(ctx, options)
	if err != nil {
		if status, ok := odataClient.StatusCode(err); ok {
			logger.Error("request rejected", zap.Int("status", status), zap.Error(err))
		} else {
			logger.Error("request failed", zap.Error(err))
		}
		return 1
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("failed to encode result", zap.Error(err))
		return 1
	}
	fmt.Fprintln(stdout, string(encoded))
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout)
	stop()
	os.Exit(code)
}
