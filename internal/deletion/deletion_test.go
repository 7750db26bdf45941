package deletion

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"empsync/internal/model"
)

func TestDetect_EmailAbsentFromAllSourcesIsDeleted(t *testing.T) {
	staged := []model.StagedRecord{{Email: "still-here@x.com"}}
	active := map[string]bool{"still-here@x.com": true, "gone@x.com": true}

	deleted := Detect(staged, active)
	assert.Equal(t, []string{"gone@x.com"}, deleted)
}

func TestDetect_PresentInAtLeastOneSourceIsNotDeleted(t *testing.T) {
	staged := []model.StagedRecord{{Email: "a@x.com"}, {Email: "b@x.com"}}
	active := map[string]bool{"a@x.com": true, "b@x.com": true}

	deleted := Detect(staged, active)
	assert.Empty(t, deleted)
}

func TestDetect_MultipleDeletions(t *testing.T) {
	staged := []model.StagedRecord{{Email: "keep@x.com"}}
	active := map[string]bool{"keep@x.com": true, "gone1@x.com": true, "gone2@x.com": true}

	deleted := Detect(staged, active)
	sort.Strings(deleted)
	assert.Equal(t, []string{"gone1@x.com", "gone2@x.com"}, deleted)
}

func TestDetect_NoActiveRowsNothingToDelete(t *testing.T) {
	staged := []model.StagedRecord{{Email: "a@x.com"}}
	deleted := Detect(staged, map[string]bool{})
	assert.Empty(t, deleted)
}
