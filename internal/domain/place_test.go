package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceTypeFor(t *testing.T) {
	onTheGo := SubtypeOnTheGo
	service := SubtypeService
	physical := SubtypePhysical
	restroom := SubtypeRestroom

	tests := []struct {
		name        string
		subtype     *ContentSubtype
		hasPhysical interface{}
		want        PlaceType
	}{
		{"on_the_go stays on_the_go", &onTheGo, nil, PlaceTypeOnTheGo},
		{"on_the_go ignores the flag", &onTheGo, true, PlaceTypeOnTheGo},
		{"service without physical location", &service, false, PlaceTypeOnTheGo},
		{"service with physical location", &service, true, PlaceTypeFixed},
		{"service with flag unset", &service, nil, PlaceTypeFixed},
		{"physical is fixed", &physical, false, PlaceTypeFixed},
		{"other subtypes are fixed", &restroom, nil, PlaceTypeFixed},
		{"nil subtype is fixed", nil, nil, PlaceTypeFixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlaceTypeFor(tt.subtype, tt.hasPhysical))
		})
	}
}
