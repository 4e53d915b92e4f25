package feed

import (
	"testing"
	"time"
)

const rssSample = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <item>
      <guid>tag-1</guid>
      <title>First Article</title>
      <link>https://example.com/articles/1</link>
      <description>Short summary of the first article</description>
      <content:encoded><![CDATA[<p>Full body of the first article</p>]]></content:encoded>
      <pubDate>Tue, 10 Jun 2025 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Second Article</title>
      <link>https://example.com/articles/2</link>
      <description>Summary of the second article</description>
    </item>
    <item>
      <guid>tag-3</guid>
      <title>Third Article</title>
      <link>https://example.com/articles/3</link>
      <pubDate>Mon, 09 Jun 2025 20:30:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

const atomSample = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Test Feed</title>
  <id>urn:feed:atom-test</id>
  <updated>2025-06-10T12:00:00Z</updated>
  <entry>
    <id>urn:entry:1</id>
    <title>Atom Entry</title>
    <link href="https://example.com/atom/1"/>
    <summary>Atom entry summary</summary>
    <updated>2025-06-10T11:00:00Z</updated>
  </entry>
</feed>`

func TestParser_RSS(t *testing.T) {
	parser := NewParser()

	items, err := parser.Run([]byte(rssSample))
	if err != nil {
		t.Fatalf("Expected no parse error, got: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}

	first := items[0]
	if first.GUID != "tag-1" {
		t.Errorf("Expected GUID tag-1, got %q", first.GUID)
	}
	if first.Title != "First Article" {
		t.Errorf("Expected title 'First Article', got %q", first.Title)
	}
	if first.Link != "https://example.com/articles/1" {
		t.Errorf("Unexpected link: %q", first.Link)
	}
	if first.Summary != "Short summary of the first article" {
		t.Errorf("Unexpected summary: %q", first.Summary)
	}
	if first.Description != "<p>Full body of the first article</p>" {
		t.Errorf("Unexpected description: %q", first.Description)
	}
	if first.PublishedAt == nil {
		t.Fatal("Expected published timestamp on first item")
	}
	want := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Errorf("Expected published %v, got %v", want, first.PublishedAt)
	}
}

func TestParser_PreservesDocumentOrder(t *testing.T) {
	parser := NewParser()

	items, err := parser.Run([]byte(rssSample))
	if err != nil {
		t.Fatalf("Expected no parse error, got: %v", err)
	}

	titles := []string{"First Article", "Second Article", "Third Article"}
	for i, want := range titles {
		if items[i].Title != want {
			t.Errorf("Expected item %d to be %q, got %q", i, want, items[i].Title)
		}
	}
}

func TestParser_MissingFieldsStayEmpty(t *testing.T) {
	parser := NewParser()

	items, err := parser.Run([]byte(rssSample))
	if err != nil {
		t.Fatalf("Expected no parse error, got: %v", err)
	}

	second := items[1]
	if second.GUID != "" {
		t.Errorf("Expected empty GUID for item without guid, got %q", second.GUID)
	}
	if second.PublishedAt != nil {
		t.Errorf("Expected nil published for undated item, got %v", second.PublishedAt)
	}
	if second.UpdatedAt != nil {
		t.Errorf("Expected nil updated for undated item, got %v", second.UpdatedAt)
	}
}

func TestParser_Atom(t *testing.T) {
	parser := NewParser()

	items, err := parser.Run([]byte(atomSample))
	if err != nil {
		t.Fatalf("Expected no parse error, got: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.GUID != "urn:entry:1" {
		t.Errorf("Expected GUID urn:entry:1, got %q", item.GUID)
	}
	if item.Link != "https://example.com/atom/1" {
		t.Errorf("Unexpected link: %q", item.Link)
	}
	if item.UpdatedAt == nil {
		t.Fatal("Expected updated timestamp on atom entry")
	}
	want := time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)
	if !item.UpdatedAt.Equal(want) {
		t.Errorf("Expected updated %v, got %v", want, item.UpdatedAt)
	}
}

func TestParser_InvalidInput(t *testing.T) {
	parser := NewParser()

	if _, err := parser.Run([]byte("this is not a feed")); err == nil {
		t.Error("Expected error for non-feed input")
	}
}
