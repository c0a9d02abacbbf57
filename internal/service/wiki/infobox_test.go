package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/hololive-wiki-scraper/internal/domain"
	"github.com/kapu/hololive-wiki-scraper/internal/util"
)

func TestExtractInformation(t *testing.T) {
	record := domain.NewTalentRecord("Usada_Pekora")
	ExtractInformation(record, parseInfobox(t, pekoraPage))

	assert.Equal(t, "兎田ぺこら", util.Deref(record.Name))
	assert.Equal(t, "Usada Pekora", util.Deref(record.NameEn))
	assert.Equal(t, "👯", util.Deref(record.OshiMark))
	assert.Equal(t, "Konpeko, konpeko, konpeko!", util.Deref(record.QuoteEn))
	assert.Equal(t, "こんぺこ！\nぺこらだぺこ", util.Deref(record.Quote))

	assert.Equal(t, []domain.SocialLink{
		{Service: "YouTube", URL: "https://www.youtube.com/@usadapekora", Label: "Pekora Ch. 兎田ぺこら"},
		{Service: "Twitter", URL: "https://twitter.com/usadapekora", Label: "@usadapekora"},
	}, record.Socials)
	assert.Empty(t, record.Outfits)
}

func TestExtractInformationNameFallsBackToEnglish(t *testing.T) {
	record := domain.NewTalentRecord("AZKi")
	ExtractInformation(record, parseInfobox(t, infoboxPage(`
		<tr><th>English Name</th><td>AZKi</td></tr>
	`)))

	require.NotNil(t, record.Name)
	assert.Equal(t, "AZKi", *record.Name)
	assert.Equal(t, record.NameEn, record.Name)
	assert.Nil(t, record.Quote)
	assert.Nil(t, record.QuoteEn)
}

func TestExtractInformationMissingSibling(t *testing.T) {
	record := domain.NewTalentRecord("Roboco")
	ExtractInformation(record, parseInfobox(t, infoboxPage(`
		<tr><th>Japanese Name</th></tr>
		<tr><th>Emoji/Oshi Mark</th></tr>
		<tr><th>YouTube</th></tr>
	`)))

	assert.Nil(t, record.Name)
	assert.Nil(t, record.NameEn)
	assert.Nil(t, record.OshiMark)
	assert.Empty(t, record.Socials)
}

func TestExtractInformationEmptyInfobox(t *testing.T) {
	record := domain.NewTalentRecord("Nobody")
	ExtractInformation(record, parseInfobox(t, infoboxPage("")))

	assert.Nil(t, record.Name)
	assert.Empty(t, record.Socials)
}

func TestExtractQuoteWithoutLineBreak(t *testing.T) {
	record := domain.NewTalentRecord("Tokino_Sora")
	ExtractInformation(record, parseInfobox(t, infoboxPage(`
		<tr><th>Tokino Sora</th></tr>
		<tr><td><span>img</span><p>  Hello&#39;s everyone  </p></td></tr>
	`)))

	assert.Nil(t, record.QuoteEn)
	require.NotNil(t, record.Quote)
	assert.Equal(t, "Hello's everyone", *record.Quote)
}

func TestExtractQuoteRequiresTwoChildren(t *testing.T) {
	record := domain.NewTalentRecord("Tokino_Sora")
	ExtractInformation(record, parseInfobox(t, infoboxPage(`
		<tr><th>Tokino Sora</th></tr>
		<tr><td><p>only child<br>second</p></td></tr>
	`)))

	assert.Nil(t, record.Quote)
	assert.Nil(t, record.QuoteEn)
}

func TestSplitQuote(t *testing.T) {
	en, native := SplitQuote("A<br>B")
	require.NotNil(t, en)
	require.NotNil(t, native)
	assert.Equal(t, "A", *en)
	assert.Equal(t, "B", *native)

	en, native = SplitQuote("A")
	assert.Nil(t, en)
	require.NotNil(t, native)
	assert.Equal(t, "A", *native)

	en, native = SplitQuote(" Hi <br/> line one<BR />line two ")
	assert.Equal(t, "Hi", *en)
	assert.Equal(t, "line one\nline two", *native)

	en, native = SplitQuote("Tom &amp; Jerry<br>トム&amp;ジェリー")
	assert.Equal(t, "Tom & Jerry", *en)
	assert.Equal(t, "トム&ジェリー", *native)
}

func TestSocialCountMatchesResolvedRows(t *testing.T) {
	record := domain.NewTalentRecord("Houshou_Marine")
	ExtractInformation(record, parseInfobox(t, infoboxPage(`
		<tr><th>YouTube</th><td><a href="https://youtube.com/a">A</a></td></tr>
		<tr><th>Spotify</th><td><a name="anchor-only">B</a></td></tr>
		<tr><th>TwitCasting</th><td><a href="https://twitcasting.tv/c">C</a></td></tr>
		<tr><th>Bilibili</th><td><a href="">D</a></td></tr>
		<tr><th>Website</th><td><a href="https://hololive.tv">E</a></td></tr>
	`)))

	require.Len(t, record.Socials, 3)
	assert.Equal(t, "YouTube", record.Socials[0].Service)
	assert.Equal(t, "TwitCasting", record.Socials[1].Service)
	assert.Equal(t, "Bilibili", record.Socials[2].Service)
	assert.Equal(t, "", record.Socials[2].URL)
}

func TestFindInfoboxMissing(t *testing.T) {
	assert.Nil(t, FindInfobox(parseDocument(t, "<html><body><p>no table</p></body></html>")))
}
