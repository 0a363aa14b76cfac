// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderers

import (
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"blockpress/internal/blocks"
	"blockpress/internal/models"
)

type postsGridRenderer struct {
	tmpl   *template.Template
	posts  PostLister
	assets AssetURLer
}

// postCard is one post in the grid.
type postCard struct {
	Title       string
	URL         string
	Excerpt     string
	PublishedAt string
	ImageURL    string
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type gridData struct {
	BlockID int64
	Title   string
	Columns int
	Posts   []postCard
	Pages   []pageLink
	PrevURL string
	NextURL string
}

func newPostsGrid(posts PostLister, assets AssetURLer) (blocks.Renderer[blocks.PostsGridContent], error) {
	if posts == nil {
		return nil, errors.New("posts grid renderer: no post source configured")
	}
	tmpl, err := parseTemplate("posts_grid.html", nil)
	if err != nil {
		return nil, err
	}
	return &postsGridRenderer{tmpl: tmpl, posts: posts, assets: assets}, nil
}

// pageParam is the query parameter holding this grid's page number. Grids
// on the same page paginate independently, keyed by their slot in the page
// so that grids nested in sections do not share one parameter.
func pageParam(ctx context.Context, b *models.Block) string {
	if key := blocks.SlotKey(ctx); key != "" {
		return "page_" + key
	}
	if b == nil || b.ID == 0 {
		return "page"
	}
	return "page_" + strconv.FormatInt(b.ID, 10)
}

// Render lists the published posts of the block's language. Posts are
// fetched when the component renders, so the request context bounds the
// query.
func (r *postsGridRenderer) Render(in blocks.Input[blocks.PostsGridContent]) templ.Component {
	if in.Err != nil {
		return notice("posts-grid", "(Posts grid block: page size or column count is invalid)")
	}
	c := in.Content

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		req := requestInfoFrom(ctx)
		param := pageParam(ctx, in.Block)

		total, err := r.posts.CountPublished(ctx, in.LanguageID)
		if err != nil {
			slog.ErrorContext(ctx, "posts grid: count posts failed", "error", err, "language_id", in.LanguageID)
			return notice("posts-grid", "(Posts could not be loaded)").Render(ctx, w)
		}
		pages := max(1, (total+c.PostsPerPage-1)/c.PostsPerPage)

		page := 1
		if c.ShowPagination {
			if n, err := strconv.Atoi(req.Query.Get(param)); err == nil && n > 1 {
				page = min(n, pages)
			}
		}

		posts, err := r.posts.ListPublished(ctx, in.LanguageID, c.PostsPerPage, (page-1)*c.PostsPerPage)
		if err != nil {
			slog.ErrorContext(ctx, "posts grid: list posts failed", "error", err, "language_id", in.LanguageID)
			return notice("posts-grid", "(Posts could not be loaded)").Render(ctx, w)
		}

		data := gridData{
			Title:   c.Title,
			Columns: c.Columns,
			Posts:   make([]postCard, 0, len(posts)),
		}
		if in.Block != nil {
			data.BlockID = in.Block.ID
		}
		for _, p := range posts {
			data.Posts = append(data.Posts, r.card(req.LanguageCode, p))
		}

		if c.ShowPagination && pages > 1 {
			for n := 1; n <= pages; n++ {
				data.Pages = append(data.Pages, pageLink{Number: n, URL: pageURL(req, param, n), Current: n == page})
			}
			if page > 1 {
				data.PrevURL = pageURL(req, param, page-1)
			}
			if page < pages {
				data.NextURL = pageURL(req, param, page+1)
			}
		}
		return execute(r.tmpl, data).Render(ctx, w)
	})
}

func (r *postsGridRenderer) card(langCode string, p models.Post) postCard {
	card := postCard{
		Title: p.Title,
		URL:   postURL(langCode, p.Slug),
	}
	if p.Excerpt != nil {
		card.Excerpt = *p.Excerpt
	}
	if p.PublishedAt != nil {
		card.PublishedAt = p.PublishedAt.Format("January 2, 2006")
	}
	if p.FeatureImageKey != nil && *p.FeatureImageKey != "" && r.assets != nil {
		card.ImageURL = r.assets.FileURL(*p.FeatureImageKey)
	}
	return card
}

func postURL(langCode, slug string) string {
	if langCode == "" {
		return "/blog/" + url.PathEscape(slug)
	}
	return "/" + url.PathEscape(langCode) + "/blog/" + url.PathEscape(slug)
}

// pageURL keeps the request's other query parameters, so several grids on
// one page keep each other's position.
func pageURL(req RequestInfo, param string, n int) string {
	q := url.Values{}
	for k, v := range req.Query {
		q[k] = append([]string(nil), v...)
	}
	if n <= 1 {
		q.Del(param)
	} else {
		q.Set(param, strconv.Itoa(n))
	}
	path := req.Path
	if path == "" {
		path = "/"
	}
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}
