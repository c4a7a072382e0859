package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

type EC2Client struct {
	client *ec2.Client
	Config aws.Config
}

func NewClient(cfg aws.Config) *EC2Client {
	return &EC2Client{client: ec2.NewFromConfig(cfg), Config: cfg}
}

// VerifyVpcConfig checks that every subnet and security group referenced by a
// function VPC configuration actually exists before any Lambda call is made.
func (ec *EC2Client) VerifyVpcConfig(ctx context.Context, subnetIDs, securityGroupIDs []string) error {
	if len(subnetIDs) > 0 {
		output, err := ec.client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{SubnetIds: subnetIDs})
		if err != nil {
			return fmt.Errorf("describing subnets: %w", err)
		}
		if len(output.Subnets) != len(subnetIDs) {
			return fmt.Errorf("only %d of %d subnets exist", len(output.Subnets), len(subnetIDs))
		}
	}
	if len(securityGroupIDs) > 0 {
		output, err := ec.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{GroupIds: securityGroupIDs})
		if err != nil {
			return fmt.Errorf("describing security groups: %w", err)
		}
		if len(output.SecurityGroups) != len(securityGroupIDs) {
			return fmt.Errorf("only %d of %d security groups exist", len(output.SecurityGroups), len(securityGroupIDs))
		}
	}
	return nil
}
