package handler

import (
	"html/template"
	"net/http"
)

var graphiqlPage = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>{{.Title}}</title>
    <meta name="robots" content="noindex" />
    <meta name="referrer" content="origin">
    <link href="https://unpkg.com/graphiql@3.7.1/graphiql.min.css" rel="stylesheet"/>
    <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/graphiql@3.7.1/graphiql.min.js"></script>
</head>
<body style="width: 100%; height: 100%; margin: 0; overflow: hidden;">
<div id="graphiql" style="height: 100vh;">Loading...</div>
<script>
    function graphQLFetcher(graphQLParams, opts) {
        return fetch({{.Endpoint}}, {
            method: "post",
            headers: Object.assign({
                'Accept': 'application/json',
                'Content-Type': 'application/json'
            }, opts && opts.headers),
            body: JSON.stringify(graphQLParams),
            credentials: 'include',
        }).then(function (response) {
            return response.text();
        }).then(function (responseBody) {
            try {
                return JSON.parse(responseBody);
            } catch (error) {
                return responseBody;
            }
        });
    }

    ReactDOM.createRoot(document.getElementById('graphiql')).render(
        React.createElement(GraphiQL, {
            fetcher: graphQLFetcher,
            headerEditorEnabled: true,
        })
    );
</script>
</body>
</html>
`))

// GraphiQL serves the GraphiQL IDE talking to the GraphQL endpoint at endpoint.
func GraphiQL(endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := graphiqlPage.Execute(w, struct {
			Title    string
			Endpoint string
		}{Title: "serlo-gateway", Endpoint: endpoint})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
