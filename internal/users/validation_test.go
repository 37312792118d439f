package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"ascii", "John Doe", true},
		{"latin accents", "José Müller", true},
		{"japanese kana", "やまだ", true},
		{"chinese", "王小明", true},
		{"empty", "", true},
		{"hangul syllables", "홍길동", false},
		{"mixed", "kim민수", false},
		{"compatibility consonant", "ㄱ", false},
		{"compatibility vowel", "ㅏ", false},
		{"last syllable", "힣", false},
		{"decomposed syllable", norm.NFD.String("한"), false},
		{"conjoining jamo pair", "\u1100\u1161", false},
		{"lone conjoining jamo", "x\u1100", false},
		{"halfwidth jamo", "x\uFFA1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidName(tt.input))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b"))
	assert.True(t, IsValidEmail("@"))
	assert.True(t, IsValidEmail("no-domain@"))
	assert.False(t, IsValidEmail("plainaddress"))
	assert.False(t, IsValidEmail(""))
}

func TestValidateCreateUserRequestOrder(t *testing.T) {
	err := ValidateCreateUserRequest(&CreateUserRequest{Name: "홍길동"})
	assert.Equal(t, MessageMissingNameOrEmail, err.(*UserError).Message)

	err = ValidateCreateUserRequest(&CreateUserRequest{Name: "홍길동", Email: "nope"})
	assert.Equal(t, MessageKoreanName, err.(*UserError).Message)

	err = ValidateCreateUserRequest(&CreateUserRequest{Name: "hong", Email: "nope"})
	assert.Equal(t, MessageInvalidEmail, err.(*UserError).Message)

	assert.NoError(t, ValidateCreateUserRequest(&CreateUserRequest{Name: "hong", Email: "hong@example.com"}))
	assert.Error(t, ValidateCreateUserRequest(nil))
}

func TestValidateUpdateEmailRequest(t *testing.T) {
	err := ValidateUpdateEmailRequest(&UpdateEmailRequest{Email: "a@b"})
	assert.Equal(t, MessageMissingNameOrEmail, err.(*UserError).Message)

	err = ValidateUpdateEmailRequest(&UpdateEmailRequest{Name: "alice", Email: "ab"})
	assert.Equal(t, MessageInvalidEmail, err.(*UserError).Message)

	assert.NoError(t, ValidateUpdateEmailRequest(&UpdateEmailRequest{Name: "alice", Email: "a@b"}))
}
