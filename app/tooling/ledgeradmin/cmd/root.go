// Package cmd contains the ledger admin commands.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var url string

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the ledger service.")
}

var rootCmd = &cobra.Command{
	Use:   "ledgeradmin",
	Short: "Administer the credit ledger service",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// get performs a GET against the service and decodes the JSON response.
func get(path string, v any) error {
	resp, err := http.Get(url + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// post performs a POST against the service and decodes the JSON response.
func post(path string, req any, v any) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := http.Post(url+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > http.StatusIMUsed {
		return decodeError(resp)
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func decodeError(resp *http.Response) error {
	var er struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, er.Error)
}
