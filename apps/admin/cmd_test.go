package main

import (
	"testing"

	"golang.org/x/term"
)

func Test_commandLine_run_argParsing(t *testing.T) {
	cli := &commandLine{}

	readPasswordFunc = func(fd int) ([]byte, error) { return nil, nil }
	defer func() { readPasswordFunc = term.ReadPassword }()

	tests := []struct {
		name    string
		args    []string // without program name
		wantErr error
	}{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "addteacher: no args", args: []string{"addteacher"}, wantErr: errHelp},
		{name: "addteacher: missing email", args: []string{"addteacher", "-college", "cvr", "-firstname", "A", "-lastname", "B", "-dept", "CSE"}, wantErr: errHelp},
		{name: "addteacher: no password", args: []string{"addteacher", "-college", "cvr", "-email", "t@test.cd", "-firstname", "A", "-lastname", "B", "-dept", "CSE"}, wantErr: errHelp},
		{name: "resetpassword: no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "resetpassword: missing htno", args: []string{"resetpassword", "-college", "cvr"}, wantErr: errHelp},
		{name: "resetpassword: no password", args: []string{"resetpassword", "-college", "cvr", "-htno", "18B81A0501"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
