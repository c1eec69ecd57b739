package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Sort        string `json:"sort" validate:"omitempty,sortbymoviefield"`
	RunningTime string `json:"running_time" validate:"required,runningtime"`
	Genres      []int  `json:"genre" validate:"dive,gte=1"`
	PageSize    int    `validate:"gte=1" errorMsg:"page size must be positive"`
}

func TestValidateStruct(t *testing.T) {
	v := New()

	valid := sample{Sort: "-production_date", RunningTime: "1시간 30분", Genres: []int{1, 2}, PageSize: 1}
	assert.Nil(t, ValidateStruct(v, valid))

	errs := ValidateStruct(v, sample{Sort: "-synopsis", RunningTime: "90분", Genres: []int{1, 0}})
	assert.Len(t, errs, 4)
	assert.Contains(t, errs["sort"], "production_date")
	assert.Equal(t, "Value must look like '2시간 15분'", errs["running_time"])
	assert.Equal(t, "Value should be greater than or equal to 1", errs["genre"])
	assert.Equal(t, "page size must be positive", errs["page_size"])
}

func TestValidateRequired(t *testing.T) {
	errs := ValidateStruct(New(), &sample{PageSize: 1})
	assert.Equal(t, map[string]string{"running_time": "This field is required"}, errs)
}
