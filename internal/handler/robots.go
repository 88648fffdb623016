package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
)

const fallbackAppURL = "http://localhost:3000"

// robotsDisallow lists the private areas of the site.
var robotsDisallow = []string{"/admin", "/api/", "/checkout", "/account"}

// RobotsTxt renders crawl directives for the storefront at appURL.
func RobotsTxt(appURL string) string {
    base := strings.TrimRight(strings.TrimSpace(appURL), "/")
    if base == "" {
        base = fallbackAppURL
    }
    var b strings.Builder
    b.WriteString("User-agent: *\nAllow: /\n")
    for _, p := range robotsDisallow {
        b.WriteString("Disallow: " + p + "\n")
    }
    b.WriteString("\nSitemap: " + base + "/sitemap.xml\n")
    return b.String()
}

// Robots returns the GET /robots.txt handler.  The body is rendered once.
func Robots(appURL string) echo.HandlerFunc {
    body := RobotsTxt(appURL)
    return func(c echo.Context) error {
        return c.String(http.StatusOK, body)
    }
}
