package user

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := User{ID: "u1", Name: "Ada", Latitude: 51.5, Longitude: -0.1}

	tests := []struct {
		name    string
		mutate  func(u *User)
		wantErr bool
	}{
		{name: "valid", mutate: func(u *User) {}},
		{name: "boundary coordinates", mutate: func(u *User) { u.Latitude = 90; u.Longitude = -180 }},
		{name: "missing id", mutate: func(u *User) { u.ID = "" }, wantErr: true},
		{name: "whitespace id", mutate: func(u *User) { u.ID = "   " }, wantErr: true},
		{name: "missing name", mutate: func(u *User) { u.Name = "" }, wantErr: true},
		{name: "name too long", mutate: func(u *User) { u.Name = strings.Repeat("x", MaxNameLength+1) }, wantErr: true},
		{name: "latitude too high", mutate: func(u *User) { u.Latitude = 90.1 }, wantErr: true},
		{name: "latitude too low", mutate: func(u *User) { u.Latitude = -90.1 }, wantErr: true},
		{name: "longitude too high", mutate: func(u *User) { u.Longitude = 180.1 }, wantErr: true},
		{name: "longitude too low", mutate: func(u *User) { u.Longitude = -180.1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)

			err := u.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
