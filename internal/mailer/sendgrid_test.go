package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roaddog-system/config"
)

func TestValidType(t *testing.T) {
	assert.True(t, ValidType(TypeFeedback))
	assert.True(t, ValidType(TypeBug))
	assert.True(t, ValidType(TypeBetaInterest))

	assert.False(t, ValidType("spam"))
	assert.False(t, ValidType(""))
	assert.False(t, ValidType("Feedback"))
}

func TestNewWithoutAPIKeyDisablesMailer(t *testing.T) {
	assert.Nil(t, New(config.MailConfig{}))
}
