package simplify_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/netprune/pkg/network"
	"github.com/matzehuels/netprune/pkg/simplify"
)

func ExampleRun() {
	net := network.New()
	for i := 1; i <= 4; i++ {
		_, _ = net.AddNode(network.Node{Number: i})
	}
	vdf := []float64{1, 2, 2}
	for i := 1; i <= 3; i++ {
		_, _ = net.AddLink(network.Link{I: i, J: i + 1, Attrs: network.Attributes{
			network.AttrLength: network.Number(10),
			network.AttrVDF:    network.Number(vdf[i-1]),
		}})
	}

	res, err := simplify.Run(context.Background(), net, simplify.Options{Rules: "vdf: force"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Deleted:", res.Deleted)
	for _, line := range res.Log {
		fmt.Println(line)
	}
	// Output:
	// Deleted: 1
	// Node 2 not deleted. User-specified aggregator for 'volume_delay_func' detected changes.
}
