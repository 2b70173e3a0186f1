package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rawbytedev/bytestream"
	"github.com/rawbytedev/bytestream/pkg/utf8x"
)

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	payload := []byte(strings.Repeat("héllo wörld 😀 ", 200))
	for i := 0; i < 10000; i++ {
		text := bytestream.New()
		text.Write(payload)
		if _, valid := utf8x.ValidateSeq(text.Fragments()); !valid {
			log.Fatal("payload failed validation")
		}

		s := bytestream.New()
		s.WriteUint16(0xB5EB)
		length := s.PlaceUint32()
		s.WriteBlob(text.Linearize())
		s.Set(length, uint64(s.Size()))
		_ = s.Linearize()
	}
	pprof.WriteHeapProfile(f)
	time.Sleep(5 * time.Minute)
}
