package main

import (
	"fmt"
	"net/http"
)

func main() {
	http.HandleFunc("/api/v1/messages/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
		}
		fmt.Fprintf(w, "mensagem recebida: %s %s\n", r.Method, r.URL.Path)
		fmt.Printf("Log: %s %s (usuario=%q papel=%q)\n", r.Method, r.URL.Path, r.Header.Get("X-User"), r.Header.Get("X-User-Role"))
	})
	http.HandleFunc("/api/v1/conversations/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "conversa: %s %s\n", r.Method, r.URL.Path)
		fmt.Printf("Log: %s %s\n", r.Method, r.URL.Path)
	})
	http.HandleFunc("/admin/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<h1>Painel</h1><p>Acesso liberado para %s</p>", r.Header.Get("X-User"))
	})
	fmt.Println("Servidor de chat rodando em http://localhost:8081")
	err := http.ListenAndServe(":8081", nil)
	if err != nil {
		fmt.Printf("Erro ao subir o servidor: %s\n", err)
	}
}
