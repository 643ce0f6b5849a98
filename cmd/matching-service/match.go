package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/validation"
	"caregiver-matcher/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type matchOptions struct {
	file   string
	pretty bool
}

func newMatchCmd(root *rootOptions) *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run one matching request from a JSON file and print the response",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			// Logs go to stderr so stdout carries only the response.
			cfg.Logging.Output = "stderr"
			log := logger.NewFromConfig(cfg.Logging)

			req, err := readRequest(opts.file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.service.FindMatches(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeResponse(cmd.OutOrStdout(), resp, opts.pretty)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "request JSON file, - for stdin")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", true, "indent the JSON output")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readRequest loads and schema-checks a request. A missing requestId is
// generated.
func readRequest(path string, stdin io.Reader) (models.MatchingRequest, error) {
	var req models.MatchingRequest

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return req, fmt.Errorf("parse request: %w", err)
	}
	if id, _ := doc["requestId"].(string); id == "" {
		doc["requestId"] = uuid.NewString()
	}

	result, err := validation.MustLoad(validation.SchemaMatchingRequest).Validate(doc)
	if err != nil {
		return req, err
	}
	if !result.Valid {
		return req, fmt.Errorf("invalid request: %s", result.Error())
	}

	data, err = json.Marshal(doc)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse request: %w", err)
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	if req.RequestedBy == "" {
		req.RequestedBy = "cli"
	}
	return req, nil
}

func writeResponse(w io.Writer, resp *models.MatchingResponse, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
