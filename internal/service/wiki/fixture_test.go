package wiki

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// pekoraPage mirrors the infobox layout of a hololive.wiki talent page.
const pekoraPage = `<!DOCTYPE html>
<html><body>
<table class="infobox">
  <tr><th colspan="2">Usada Pekora</th></tr>
  <tr><td colspan="2"><div class="image">portrait</div><i>Konpeko, konpeko, konpeko!<br>こんぺこ！<br>ぺこらだぺこ</i></td></tr>
  <tr><th>Japanese Name</th><td> 兎田ぺこら </td></tr>
  <tr><th>English Name</th><td>Usada Pekora</td></tr>
  <tr><th>Emoji / Oshi Mark</th><td>👯</td></tr>
  <tr><th>Debut Date</th><td>July 17, 2019</td></tr>
  <tr><th> YouTube </th><td><a href="https://www.youtube.com/@usadapekora">Pekora Ch. 兎田ぺこら</a></td></tr>
  <tr><th>Twitter</th><td><a href="https://twitter.com/usadapekora"> @usadapekora </a></td></tr>
  <tr><th>Marshmallow</th><td><a>no link</a></td></tr>
  <tr><th>Bilibili</th><td>none</td></tr>
  <tr><td>row without header</td></tr>
  <tr><td colspan="2">
    <div class="tabber">
      <div class="tabber__panel" title="Profile">navigation</div>
    </div>
    <div class="tabber">
      <div class="tabber__panel" title=" Original "><img src="https://static.example/thumb/a/ab/Original.png/200px-Original.png"></div>
      <div class="tabber__panel" title="New Year"><img src="https://static.example/thumb/c/cd/NewYear.png/200px-NewYear.png"></div>
      <div class="tabber__panel"><img src="https://static.example/thumb/e/ef/Untitled.png/200px-Untitled.png"></div>
      <div class="tabber__panel" title="No Image">missing</div>
    </div>
  </td></tr>
</table>
</body></html>`

func parseDocument(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func parseInfobox(t *testing.T, page string) *goquery.Selection {
	t.Helper()
	infobox := FindInfobox(parseDocument(t, page))
	require.NotNil(t, infobox)
	return infobox
}

func infoboxPage(rows string) string {
	return `<html><body><table class="infobox">` + rows + `</table></body></html>`
}
