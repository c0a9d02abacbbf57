package constants

import "time"

var WikiConfig = struct {
	BaseURL        string
	PagePath       string
	UserAgent      string
	RequestTimeout time.Duration
}{
	BaseURL:        "https://hololive.wiki",
	PagePath:       "/wiki/",
	UserAgent:      "Mozilla/5.0 (compatible; HololiveWikiScraper/1.0; +https://hololive.wiki)",
	RequestTimeout: 30 * time.Second,
}

var OutputConfig = struct {
	Root         string
	DataFileName string
	ImageExt     string
	DirPerm      uint32
	FilePerm     uint32
}{
	Root:         "./hololive",
	DataFileName: "_data.json",
	ImageExt:     ".png",
	DirPerm:      0o755,
	FilePerm:     0o644,
}

var DownloadRetryConfig = struct {
	MaxAttempts uint
	Delay       time.Duration
}{
	MaxAttempts: 2, // 최초 1회 + 재시도 1회
	Delay:       500 * time.Millisecond,
}

var CacheKeys = struct {
	Talent string
	Group  string
}{
	Talent: "hololive:wiki:talent:%s:%s",
	Group:  "hololive:wiki:group:%s",
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var TabberStrategy = struct {
	Content string
	Legacy  string
}{
	Content: "content",
	Legacy:  "legacy",
}
