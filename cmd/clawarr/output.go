package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/viper"
)

func jsonOutput(v *viper.Viper) bool {
	return v.GetString("output") == "json"
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
