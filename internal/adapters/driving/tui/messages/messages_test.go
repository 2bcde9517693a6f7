package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewCheck, "check"},
		{ViewCorpus, "corpus"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestCheckCompleted_CarriesReport(t *testing.T) {
	report := &domain.Report{}
	report.Percentage = 42.5

	msg := CheckCompleted{Report: report}

	assert.Equal(t, 42.5, msg.Report.Percentage)
	assert.NoError(t, msg.Err)
}

func TestCorpusLoaded_CarriesError(t *testing.T) {
	err := errors.New("store closed")

	msg := CorpusLoaded{Err: err}

	assert.Nil(t, msg.Stats)
	assert.Empty(t, msg.Documents)
	assert.ErrorIs(t, msg.Err, err)
}
