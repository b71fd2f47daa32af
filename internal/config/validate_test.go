package config

import (
	"strings"
	"testing"
)

func TestValidateDefaultsAreValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Validate(Default()) error = %v", err)
	}
	if err := Validate(nil); err != nil {
		t.Fatalf("Validate(nil) error = %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Server.Listen = "not-an-address"
	cfg.Server.PollInterval = "fast"
	cfg.Server.LogLevel = "loud"
	cfg.Client.URL = "://broken"
	cfg.Client.Timeout = "-1s"
	cfg.Install.Roots = []string{"[unclosed"}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() error = nil, want joined errors")
	}

	for _, want := range []string{
		"server.listen",
		"server.poll_interval",
		"server.log_level",
		"client.url",
		"client.timeout",
		"install.roots[0]",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %q:\n%v", want, err)
		}
	}
}

func TestValidateDurationEdges(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"empty ok", "", false},
		{"valid", "750ms", false},
		{"zero", "0s", true},
		{"negative", "-5s", true},
		{"garbage", "soon", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateDuration("field", tt.raw)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("validateDuration(%q) errs = %v, wantErr %v", tt.raw, errs, tt.wantErr)
			}
		})
	}
}
