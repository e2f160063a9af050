package webhook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSON(t *testing.T) {
	body := []byte(`{
		"id": 706405506930370084,
		"email": "bob@example.com",
		"phone": null,
		"first_name": "Bob",
		"last_name": "Norman",
		"tags": "vip, agent",
		"default_address": {"address1": "1 Main St", "address2": "", "city": "Ottawa", "province": "ON", "zip": "K2P 1L4", "country": "Canada"}
	}`)

	p, err := Decode(body, "application/json")
	require.NoError(t, err)

	assert.Equal(t, FlexString("706405506930370084"), p.ID)
	assert.Equal(t, "bob@example.com", p.Email)
	assert.Equal(t, "", p.Phone)
	assert.Equal(t, "Bob", p.FirstName)
	assert.Equal(t, Tags{"vip", "agent"}, p.Tags)
	assert.True(t, p.Tags.Has("agent"))
	assert.Equal(t, Address("1 Main St, Ottawa, ON, K2P 1L4, Canada"), p.DefaultAddress)
}

func TestDecode_JSONTagArrayAndStringAddress(t *testing.T) {
	p, err := Decode([]byte(`{"email":"a@b.com","tags":["agent"],"default_address":"12 Rue Haute","id":"c1"}`), "")
	require.NoError(t, err)
	assert.True(t, p.Tags.Has("agent"))
	assert.Equal(t, Address("12 Rue Haute"), p.DefaultAddress)
	assert.Equal(t, FlexString("c1"), p.ID)
}

func TestDecode_MissingTags(t *testing.T) {
	p, err := Decode([]byte(`{"email":"a@b.com"}`), "application/json")
	require.NoError(t, err)
	assert.Empty(t, p.Tags)
	assert.False(t, p.Tags.Has("agent"))
}

func TestDecode_Form(t *testing.T) {
	body := []byte("email=a%40b.com&first_name=Ann&tags%5B%5D=agent&tags%5B%5D=vip" +
		"&default_address%5Baddress1%5D=1+Main+St&default_address%5Bcity%5D=Paris")

	p, err := Decode(body, "application/x-www-form-urlencoded; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", p.Email)
	assert.Equal(t, "Ann", p.FirstName)
	assert.Equal(t, Tags{"agent", "vip"}, p.Tags)
	assert.Equal(t, Address("1 Main St, Paris"), p.DefaultAddress)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"email":`), "application/json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedPayload))

	_, err = Decode([]byte(`{"tags": 5}`), "application/json")
	assert.True(t, errors.Is(err, ErrMalformedPayload))

	_, err = Decode([]byte("a=%zz"), "application/x-www-form-urlencoded")
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestTagsHas(t *testing.T) {
	tags := Tags{"agents", " agent "}
	assert.True(t, tags.Has("agent"))
	assert.False(t, Tags{"agents", "secret-agent"}.Has("agent"))
	assert.False(t, Tags(nil).Has("agent"))
}
