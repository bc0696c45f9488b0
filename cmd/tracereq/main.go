// Command tracereq sends a single traced HTTP request through an OTLP
// collector, as a smoke test for trace propagation wiring.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/lily-mara/otelclient"
)

var (
	endpointFlag string
	protocolFlag string
	serviceFlag  string
	methodFlag   string
	dataFlag     string
	jsonFlag     string
	formFlags    []string
	timeoutFlag  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "tracereq URL",
	Short: "Send one traced HTTP request",
	Long: `tracereq sends a single HTTP request instrumented with an
OpenTelemetry client span, exports the span to the configured OTLP
collector, and prints the response status and trace id.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&endpointFlag, "endpoint", "localhost:4317", "OTLP collector endpoint")
	rootCmd.Flags().StringVar(&protocolFlag, "protocol", "grpc", "OTLP transport: grpc or http")
	rootCmd.Flags().StringVar(&serviceFlag, "service", "tracereq", "service.name reported on spans")
	rootCmd.Flags().StringVarP(&methodFlag, "method", "X", http.MethodGet, "HTTP method")
	rootCmd.Flags().StringVarP(&dataFlag, "data", "d", "", "raw request body")
	rootCmd.Flags().StringVar(&jsonFlag, "json", "", "JSON request body")
	rootCmd.Flags().StringArrayVarP(&formFlags, "form", "F", nil, "form field key=value (repeatable)")
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 30*time.Second, "request timeout")
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeoutFlag)
	defer cancel()

	tel, err := otelclient.Setup(ctx, otelclient.TelemetryConfig{
		ServiceName:       serviceFlag,
		ServiceVersion:    "dev",
		Environment:       "dev",
		CollectorEndpoint: endpointFlag,
		Protocol:          protocolFlag,
		Sampler:           "ratio",
		SampleRatio:       1.0, // always sample a smoke request
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintln(os.Stderr, "shutdown:", err)
		}
	}()

	req, err := http.NewRequest(strings.ToUpper(methodFlag), args[0], nil)
	if err != nil {
		return err
	}

	// Root span so the client span has a parent and the whole request
	// shares one printable trace id.
	tracer := tel.TracerProvider().Tracer("tracereq")
	ctx, span := tracer.Start(ctx, "tracereq", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	client := otelclient.NewClient(&http.Client{Timeout: timeoutFlag}, tel.ClientConfig())

	resp, err := send(ctx, client, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", resp.Proto, resp.Status)
	fmt.Printf("trace_id: %s\n", span.SpanContext().TraceID())
	fmt.Printf("%d bytes\n", len(body))
	return nil
}

func send(ctx context.Context, client *otelclient.Client, req *http.Request) (*http.Response, error) {
	switch {
	case jsonFlag != "":
		var v json.RawMessage
		if err := json.Unmarshal([]byte(jsonFlag), &v); err != nil {
			return nil, fmt.Errorf("--json: %w", err)
		}
		return client.SendJSON(ctx, req, v)
	case len(formFlags) > 0:
		form := url.Values{}
		for _, f := range formFlags {
			k, v, ok := strings.Cut(f, "=")
			if !ok {
				return nil, fmt.Errorf("--form %q: want key=value", f)
			}
			form.Add(k, v)
		}
		return client.SendForm(ctx, req, form)
	case dataFlag != "":
		return client.SendBody(ctx, req, []byte(dataFlag))
	default:
		return client.Send(ctx, req)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
