package cssom

// UserAgentCSS is the default stylesheet of the engine. It is intended to be
// added to a CSSOM with origin UserAgent. Display defaults are handled by the
// initial values of package style and are not repeated here.
const UserAgentCSS = `
body { margin: 8pt }
p, blockquote, dl, figure, pre, ul, ol { margin-top: 1em; margin-bottom: 1em }
blockquote, figure { margin-left: 30pt; margin-right: 30pt }
ul, ol { padding-left: 30pt }
dd { margin-left: 30pt }
h1 { font-size: 2em; margin-top: 0.67em; margin-bottom: 0.67em; font-weight: bold }
h2 { font-size: 1.5em; margin-top: 0.83em; margin-bottom: 0.83em; font-weight: bold }
h3 { font-size: 1.17em; margin-top: 1em; margin-bottom: 1em; font-weight: bold }
h4 { margin-top: 1.33em; margin-bottom: 1.33em; font-weight: bold }
h5 { font-size: 0.83em; margin-top: 1.67em; margin-bottom: 1.67em; font-weight: bold }
h6 { font-size: 0.67em; margin-top: 2.33em; margin-bottom: 2.33em; font-weight: bold }
h1, h2, h3, h4, h5, h6 { page-break-after: avoid }
b, strong, th { font-weight: bold }
i, em, cite, var { font-style: italic }
pre, code, kbd, samp, tt { font-family: monospace }
pre { white-space: pre }
th { text-align: center }
td, th { padding: 1pt }
table { border-spacing: 2px }
thead { page-break-inside: avoid }
small { font-size: smaller }
big { font-size: larger }
hr { border: 1px inset; margin-top: 0.5em; margin-bottom: 0.5em }
caption { text-align: center }
`
