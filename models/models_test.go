package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApartmentApplyDefaults(t *testing.T) {
	a := Apartment{TitleRu: "Квартира", TitleEn: "Flat", AddressRu: "ул. Чан Фу", PriceUsd: 500}
	a.ApplyDefaults()

	assert.Equal(t, "Flat", a.TitleEn)
	assert.Equal(t, "Квартира", a.TitleVi)
	assert.Equal(t, "ул. Чан Фу", a.AddressEn)
	assert.Equal(t, int64(12500000), a.PriceVnd)

	a.PriceVnd = 1
	a.ApplyDefaults()
	assert.Equal(t, int64(1), a.PriceVnd)
}

func TestApartmentCover(t *testing.T) {
	a := Apartment{}
	assert.Nil(t, a.Cover())

	a.Images = []ApartmentImage{{ID: 1, URL: "a"}, {ID: 2, URL: "b"}}
	assert.Equal(t, "a", a.Cover().URL)

	a.Images[1].IsCover = true
	assert.Equal(t, "b", a.Cover().URL)
}

func TestApartmentTitle(t *testing.T) {
	a := Apartment{TitleRu: "ru", TitleVi: "vi"}
	assert.Equal(t, "ru", a.Title("ru"))
	assert.Equal(t, "ru", a.Title("en"))
	assert.Equal(t, "vi", a.Title("vi"))
	assert.Equal(t, "ru", a.Title("de"))
}

func TestSubscriptionMatches(t *testing.T) {
	n := func(v int) *int { return &v }
	d := uint(3)
	a := &Apartment{PriceUsd: 600, Rooms: 2, DistrictID: 3}

	cases := []struct {
		name string
		sub  ApartmentSubscription
		want bool
	}{
		{"no bounds", ApartmentSubscription{}, true},
		{"inclusive price", ApartmentSubscription{MinPrice: n(600), MaxPrice: n(600)}, true},
		{"too cheap", ApartmentSubscription{MaxPrice: n(599)}, false},
		{"too expensive", ApartmentSubscription{MinPrice: n(601)}, false},
		{"rooms range", ApartmentSubscription{MinRooms: n(1), MaxRooms: n(2)}, true},
		{"not enough rooms", ApartmentSubscription{MinRooms: n(3)}, false},
		{"district", ApartmentSubscription{DistrictID: &d}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sub.Matches(a))
		})
	}

	other := uint(4)
	assert.False(t, (&ApartmentSubscription{DistrictID: &other}).Matches(a))
}

func TestBlogPostMarkPublished(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := BlogPost{}
	assert.False(t, p.MarkPublished(t0))
	assert.Nil(t, p.PublishedAt)

	p.Published = true
	assert.True(t, p.MarkPublished(t0))
	assert.False(t, p.MarkPublished(t0.Add(time.Hour)))
	assert.True(t, p.PublishedAt.Equal(t0))
}

func TestEstimateReadTime(t *testing.T) {
	assert.Equal(t, 1, EstimateReadTime(""))
	assert.Equal(t, 1, EstimateReadTime(strings.Repeat("w ", 200)))
	assert.Equal(t, 2, EstimateReadTime(strings.Repeat("w ", 201)))
}

func TestBlogPostApplyDefaults(t *testing.T) {
	p := BlogPost{TitleRu: "Заголовок", ContentRu: "текст"}
	p.ApplyDefaults()
	assert.Equal(t, "Заголовок", p.TitleEn)
	assert.Equal(t, "текст", p.ContentVi)
	assert.Equal(t, 1, p.ReadTime)
	assert.NotNil(t, p.Tags)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"new", "contacted", "completed", "cancelled"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(st))
	}
	_, err := ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDefaultsForDictionaries(t *testing.T) {
	am := Amenity{NameRu: "Кондиционер"}
	am.ApplyDefaults()
	assert.Equal(t, "general", am.Category)
	assert.Equal(t, "Кондиционер", am.NameVi)

	f := FAQ{QuestionRu: "q", AnswerRu: "a"}
	f.ApplyDefaults()
	assert.Equal(t, FAQCategoryGeneral, f.Category)
	assert.True(t, ValidFAQCategory("rent"))
	assert.False(t, ValidFAQCategory("other"))

	assert.True(t, ValidViewingType("video_call"))
	assert.False(t, ValidViewingType("call"))
}
