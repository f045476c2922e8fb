package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/taskgraph/pkg/httputil"
)

func ExamplePolicy_Do() {
	p := httputil.Policy{Attempts: 3, Delay: time.Millisecond}

	attempt := 0
	err := p.Do(context.Background(), func() error {
		attempt++
		if attempt < 3 {
			return httputil.Retryable(errors.New("503 service unavailable"))
		}
		return nil
	})

	fmt.Println("attempts:", attempt)
	fmt.Println("error:", err)
	// Output:
	// attempts: 3
	// error: <nil>
}
