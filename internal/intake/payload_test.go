package intake_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/geocoder89/formhub/internal/intake"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		contentType string
		want        intake.Payload
		wantErr     error
	}{
		{
			name:        "form",
			raw:         "email=a@b.com&password=abcdef",
			contentType: "application/x-www-form-urlencoded",
			want:        intake.Payload{"email": "a@b.com", "password": "abcdef"},
		},
		{
			name:        "form_percent_encoded",
			raw:         "email=a%40b.com&password=ab+cd%26ef",
			contentType: "application/x-www-form-urlencoded",
			want:        intake.Payload{"email": "a@b.com", "password": "ab cd&ef"},
		},
		{
			name:        "form_first_value_wins",
			raw:         "email=first@b.com&email=second@b.com",
			contentType: "",
			want:        intake.Payload{"email": "first@b.com"},
		},
		{
			name:        "form_missing_key_absent",
			raw:         "email=a@b.com",
			contentType: "application/x-www-form-urlencoded",
			want:        intake.Payload{"email": "a@b.com"},
		},
		{
			name:        "form_bad_pair_skipped",
			raw:         "email=a@b.com&bad=%zz&password=abcdef",
			contentType: "application/x-www-form-urlencoded",
			want:        intake.Payload{"email": "a@b.com", "password": "abcdef"},
		},
		{
			name:        "json",
			raw:         `{"email":"a@b.com","password":"abcdef"}`,
			contentType: "application/json",
			want:        intake.Payload{"email": "a@b.com", "password": "abcdef"},
		},
		{
			name:        "json_with_charset",
			raw:         `{"email":"a@b.com","password":"abcdef"}`,
			contentType: "Application/JSON; charset=utf-8",
			want:        intake.Payload{"email": "a@b.com", "password": "abcdef"},
		},
		{
			name:        "json_escaped_unicode",
			raw:         `{"email":"a\u0040b.com","password":"abc\u0064ef"}`,
			contentType: "application/json",
			want:        intake.Payload{"email": "a@b.com", "password": "abcdef"},
		},
		{
			name:        "json_syntax_error",
			raw:         `{"email":`,
			contentType: "application/json",
			wantErr:     intake.ErrMalformedPayload,
		},
		{
			name:        "json_not_object",
			raw:         `["a@b.com"]`,
			contentType: "application/json",
			wantErr:     intake.ErrMalformedPayload,
		},
		{
			name:        "empty_json",
			raw:         "",
			contentType: "application/json",
			want:        intake.Payload{},
		},
		{
			name:        "empty_form",
			raw:         "",
			contentType: "application/x-www-form-urlencoded",
			want:        intake.Payload{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intake.Parse(tt.raw, tt.contentType)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				return
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseFormAndJSONAgree(t *testing.T) {
	form, err := intake.Parse("email=a@b.com&password=abcdef", "application/x-www-form-urlencoded")
	if err != nil {
		t.Fatalf("form: %v", err)
	}

	js, err := intake.Parse(`{"email":"a@b.com","password":"abcdef"}`, "application/json")
	if err != nil {
		t.Fatalf("json: %v", err)
	}

	if !reflect.DeepEqual(form, js) {
		t.Fatalf("form %#v != json %#v", form, js)
	}
}
