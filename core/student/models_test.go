package student

import "testing"

func TestNewStudent_Validate(t *testing.T) {
	valid := NewStudent{
		Fname:           "Awe",
		Lname:           "Some",
		Htno:            "18B81A0501",
		Email:           "awe@test.cd",
		Password:        "LeP@ssw0rd!",
		PasswordConfirm: "LeP@ssw0rd!",
	}

	tests := []struct {
		name    string
		mutate  func(ns *NewStudent)
		wantErr bool
	}{
		{name: "valid", mutate: func(*NewStudent) {}},
		{name: "missing fname", mutate: func(ns *NewStudent) { ns.Fname = "" }, wantErr: true},
		{name: "invalid htno", mutate: func(ns *NewStudent) { ns.Htno = "18B81A05-01!" }, wantErr: true},
		{name: "invalid email", mutate: func(ns *NewStudent) { ns.Email = "nope" }, wantErr: true},
		{name: "password mismatch", mutate: func(ns *NewStudent) { ns.PasswordConfirm = "Other@Pwd1!" }, wantErr: true},
		{name: "password too short", mutate: func(ns *NewStudent) { ns.Password = "P@s1"; ns.PasswordConfirm = "P@s1" }, wantErr: true},
		{name: "password all numeric", mutate: func(ns *NewStudent) { ns.Password = "12345678"; ns.PasswordConfirm = "12345678" }, wantErr: true},
		{name: "password no complexity", mutate: func(ns *NewStudent) { ns.Password = "lepassword"; ns.PasswordConfirm = "lepassword" }, wantErr: true},
		{name: "password similar to htno", mutate: func(ns *NewStudent) { ns.Password = "18B81A0501x!"; ns.PasswordConfirm = "18B81A0501x!" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := valid
			tt.mutate(&ns)
			if err := ns.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
