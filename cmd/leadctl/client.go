package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// contentTypes por extensión; el server valida el MIME de la parte.
var contentTypes = map[string]string{
	".csv":  "text/csv",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
	Out       io.Writer
}

// apiError es el cuerpo de error del server.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (c *client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// upload envía el archivo en streaming con un pipe, sin cargarlo en memoria.
func (c *client) upload(ctx context.Context, path string) (int, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	name := filepath.Base(path)
	ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		ct = "application/octet-stream"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/upload"), pr)
	if err != nil {
		_ = pr.Close()
		return 0, nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req)
}

func (c *client) distributions(ctx context.Context) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/upload/distributions"), nil)
	if err != nil {
		return 0, nil, err
	}
	return c.send(req)
}

func (c *client) send(req *http.Request) (int, []byte, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, b, nil
}

// check convierte respuestas no-2xx en error legible.
func check(status int, body []byte) error {
	if status/100 == 2 {
		return nil
	}
	var e apiError
	if json.Unmarshal(body, &e) == nil && e.Code != "" {
		if e.Detail != "" {
			return fmt.Errorf("%s (%d): %s: %s", e.Code, status, e.Message, e.Detail)
		}
		return fmt.Errorf("%s (%d): %s", e.Code, status, e.Message)
	}
	return fmt.Errorf("status=%d body=%s", status, strings.TrimSpace(string(body)))
}

type distributionView struct {
	Agent struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"agent"`
	LeadsCount int `json:"leadsCount"`
}

// print escribe el cuerpo como JSON indentado o como tabla de texto.
func (c *client) print(body []byte) error {
	if c.OutFormat == "json" {
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			_, err = fmt.Fprintln(c.Out, string(body))
			return err
		}
		p, _ := json.MarshalIndent(v, "", "  ")
		_, err := fmt.Fprintln(c.Out, string(p))
		return err
	}

	var v struct {
		Message       string             `json:"message"`
		TotalLeads    *int               `json:"totalLeads"`
		RejectedRows  int                `json:"rejectedRows"`
		BatchID       string             `json:"batchId"`
		Distributions []distributionView `json:"distributions"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return err
	}
	if v.TotalLeads != nil {
		fmt.Fprintf(c.Out, "%s\nbatch=%s leads=%d rejected=%d\n", v.Message, v.BatchID, *v.TotalLeads, v.RejectedRows)
	}
	if len(v.Distributions) == 0 {
		fmt.Fprintln(c.Out, "no distributions")
		return nil
	}
	for _, d := range v.Distributions {
		fmt.Fprintf(c.Out, "%-24s %-32s %d\n", d.Agent.Name, d.Agent.Email, d.LeadsCount)
	}
	return nil
}
