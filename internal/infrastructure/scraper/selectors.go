package scraper

// CandidateSelectors lists likely main-content containers, highest priority first.
var CandidateSelectors = []string{
	"article",
	`[role="main"]`,
	".post-content",
	".article-content",
	".post-body",
	".entry-content",
	".content-body",
	"#content",
	".content",
	".post",
	".article",
	"main",
}

// DenySelectors match regions that never hold article text.
var DenySelectors = []string{
	"nav",
	"header",
	"footer",
	"#header",
	"#footer",
	".nav",
	".navigation",
	".menu",
	".sidebar",
	".comments",
	".related",
	".ad",
	".advertisement",
	".social",
	".share",
	"aside",
}

const blockTextSelector = "p, h1, h2, h3, h4, h5, h6, li"
