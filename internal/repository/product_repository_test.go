package repository

import (
    "database/sql"
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestEncodeList(t *testing.T) {
    assert.Equal(t, `[]`, encodeList(nil))
    assert.Equal(t, `[]`, encodeList([]string{}))
    assert.Equal(t, `["S","M","XL"]`, encodeList([]string{"S", "M", "XL"}))
}

func TestDecodeList(t *testing.T) {
    assert.Equal(t, []string{}, decodeList(sql.NullString{}))
    assert.Equal(t, []string{}, decodeList(sql.NullString{Valid: true, String: ""}))
    assert.Equal(t, []string{}, decodeList(sql.NullString{Valid: true, String: "not json"}))
    assert.Equal(t, []string{"blaugrana", "gold"},
        decodeList(sql.NullString{Valid: true, String: `["blaugrana","gold"]`}))
}
